package model

// Week start options for due-date bucketing.
const (
	WeekStartSunday = "sunday"
	WeekStartMonday = "monday"
)

// SavedSearch is a named, reusable search query.
type SavedSearch struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Query string `json:"query"`
}

// Settings is the single per-user configuration blob. It is not versioned;
// unknown keys written by newer clients round-trip through the adapters
// untouched only at the file level, so fields added here must keep their
// JSON names stable.
type Settings struct {
	WeekStart     string        `json:"weekStart,omitempty"`
	SavedSearches []SavedSearch `json:"savedSearches,omitempty"`

	SyncBackend string `json:"syncBackend,omitempty"`
	SyncPath    string `json:"syncPath,omitempty"`
	WebDAVURL   string `json:"webdavUrl,omitempty"`
	WebDAVUser  string `json:"webdavUsername,omitempty"`
	CloudURL    string `json:"cloudUrl,omitempty"`

	// NotificationsEnabled is a tri-state: nil means "not set", which is
	// treated as enabled.
	NotificationsEnabled      *bool  `json:"notificationsEnabled,omitempty"`
	DailyDigestMorningEnabled bool   `json:"dailyDigestMorningEnabled,omitempty"`
	DailyDigestMorningTime    string `json:"dailyDigestMorningTime,omitempty"`
	DailyDigestEveningEnabled bool   `json:"dailyDigestEveningEnabled,omitempty"`
	DailyDigestEveningTime    string `json:"dailyDigestEveningTime,omitempty"`
}

// NotificationsOn reports whether task notifications should fire.
func (s Settings) NotificationsOn() bool {
	return s.NotificationsEnabled == nil || *s.NotificationsEnabled
}

// Clone returns a deep copy of the settings blob.
func (s Settings) Clone() Settings {
	c := s
	if s.SavedSearches != nil {
		c.SavedSearches = append([]SavedSearch(nil), s.SavedSearches...)
	}
	if s.NotificationsEnabled != nil {
		v := *s.NotificationsEnabled
		c.NotificationsEnabled = &v
	}
	return c
}
