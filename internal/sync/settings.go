package sync

import "fmt"

// WebDAVConfig is the WebDAV backend configuration as shown to a user.
// The password itself never leaves the keyring; HasPassword only reports
// whether one is stored.
type WebDAVConfig struct {
	URL         string
	Username    string
	HasPassword bool
}

// CloudConfig is the cloud backend configuration. HasToken reports
// whether an access token is stored in the keyring.
type CloudConfig struct {
	URL      string
	HasToken bool
}

// WebDAVSettings reads the current WebDAV configuration.
func (s *Service) WebDAVSettings() (WebDAVConfig, error) {
	settings := s.store.Snapshot().Settings
	password, err := s.creds.Get(KeyWebDAVPassword)
	if err != nil {
		return WebDAVConfig{}, fmt.Errorf("reading webdav password: %w", err)
	}
	return WebDAVConfig{
		URL:         settings.WebDAVURL,
		Username:    settings.WebDAVUser,
		HasPassword: password != "",
	}, nil
}

// SetWebDAVSettings stores the WebDAV configuration. An empty password
// keeps whatever is already in the keyring, so a user can change the URL
// without re-entering the secret.
func (s *Service) SetWebDAVSettings(url, username, password string) error {
	if password != "" {
		if err := s.creds.Set(KeyWebDAVPassword, password); err != nil {
			return fmt.Errorf("storing webdav password: %w", err)
		}
	}

	settings := s.store.Snapshot().Settings
	settings.WebDAVURL = url
	settings.WebDAVUser = username
	return s.store.UpdateSettings(settings)
}

// CloudSettings reads the current cloud configuration.
func (s *Service) CloudSettings() (CloudConfig, error) {
	settings := s.store.Snapshot().Settings
	token, err := s.creds.Get(KeyCloudToken)
	if err != nil {
		return CloudConfig{}, fmt.Errorf("reading cloud token: %w", err)
	}
	return CloudConfig{URL: settings.CloudURL, HasToken: token != ""}, nil
}

// SetCloudSettings stores the cloud configuration. An empty token keeps
// the one already in the keyring.
func (s *Service) SetCloudSettings(url, token string) error {
	if token != "" {
		if err := s.creds.Set(KeyCloudToken, token); err != nil {
			return fmt.Errorf("storing cloud token: %w", err)
		}
	}

	settings := s.store.Snapshot().Settings
	settings.CloudURL = url
	return s.store.UpdateSettings(settings)
}

// CurrentBackend returns the backend configured in settings. An unset
// value means sync is off.
func (s *Service) CurrentBackend() Backend {
	b := Backend(s.store.Snapshot().Settings.SyncBackend)
	if b == "" {
		return BackendOff
	}
	return b
}

// SetBackend switches the active sync backend.
func (s *Service) SetBackend(backend Backend) error {
	switch backend {
	case BackendOff, BackendFile, BackendWebDAV, BackendCloud:
	default:
		return fmt.Errorf("unknown sync backend %q", backend)
	}

	settings := s.store.Snapshot().Settings
	settings.SyncBackend = string(backend)
	return s.store.UpdateSettings(settings)
}

// SyncPath returns the shared folder used by the file backend.
func (s *Service) SyncPath() string {
	return s.store.Snapshot().Settings.SyncPath
}

// SetSyncPath sets the shared folder used by the file backend.
func (s *Service) SetSyncPath(path string) error {
	settings := s.store.Snapshot().Settings
	settings.SyncPath = path
	return s.store.UpdateSettings(settings)
}
