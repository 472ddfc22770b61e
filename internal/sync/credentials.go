package sync

import "github.com/nhle/gtd/internal/credential"

// Credential keys used by the sync backends.
const (
	KeyWebDAVPassword = credential.KeyWebDAVPassword
	KeyCloudToken     = credential.KeyCloudToken
)

// Credentials abstracts secret storage so tests can run without a
// system keyring.
type Credentials interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// KeyringCredentials is the production credential source backed by the
// system keyring.
type KeyringCredentials struct{}

func (KeyringCredentials) Get(key string) (string, error) { return credential.Get(key) }
func (KeyringCredentials) Set(key, value string) error    { return credential.Set(key, value) }
func (KeyringCredentials) Delete(key string) error        { return credential.Delete(key) }
