package protocol

type storageCookiesParams struct {
	BrowserContextID string `json:"browserContextId,omitempty"`
}

type storageSetCookiesParams struct {
	Cookies          []CookieParam `json:"cookies"`
	BrowserContextID string        `json:"browserContextId,omitempty"`
}

// StorageGetCookies builds Storage.getCookies, optionally scoped to a
// browser context.
func StorageGetCookies(browserContextID string) *Command {
	return newCommand("Storage.getCookies", storageCookiesParams{
		BrowserContextID: browserContextID,
	})
}

// StorageSetCookies builds Storage.setCookies.
func StorageSetCookies(cookies []CookieParam, browserContextID string) *Command {
	return newCommand("Storage.setCookies", storageSetCookiesParams{
		Cookies:          cookies,
		BrowserContextID: browserContextID,
	})
}

// StorageClearCookies builds Storage.clearCookies.
func StorageClearCookies(browserContextID string) *Command {
	return newCommand("Storage.clearCookies", storageCookiesParams{
		BrowserContextID: browserContextID,
	})
}
