package playwright

// Cookie mirrors a single browser cookie as persisted in StorageState.
// Field names preserve the driver's camelCase wire spelling.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	URL      string `json:"url,omitempty"`
	Domain   string `json:"domain,omitempty"`
	Path     string `json:"path,omitempty"`
	Expires  float64 `json:"expires,omitempty"`
	HTTPOnly bool    `json:"httpOnly,omitempty"`
	Secure   bool    `json:"secure,omitempty"`
	SameSite string  `json:"sameSite,omitempty"`
}

// LocalStorageEntry is one name/value pair within an OriginState.
type LocalStorageEntry struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OriginState captures the localStorage contents for one origin.
type OriginState struct {
	Origin       string              `json:"origin"`
	LocalStorage []LocalStorageEntry `json:"localStorage,omitempty"`
}

// StorageState is the persisted cookie/localStorage snapshot produced by
// BrowserContext.StorageState and accepted by Browser's
// NewContextOptions.StorageState.
type StorageState struct {
	Cookies []Cookie      `json:"cookies,omitempty"`
	Origins []OriginState `json:"origins,omitempty"`
}
