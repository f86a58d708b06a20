package protocol

// Event method names the library subscribes to or latches internally.
const (
	EventPageJavascriptDialogOpening = "Page.javascriptDialogOpening"
	EventPageJavascriptDialogClosed  = "Page.javascriptDialogClosed"
	EventPageFileChooserOpened       = "Page.fileChooserOpened"
	EventPageLoadEventFired          = "Page.loadEventFired"
	EventPageDomContentEventFired    = "Page.domContentEventFired"

	EventNetworkRequestWillBeSent = "Network.requestWillBeSent"
	EventNetworkResponseReceived  = "Network.responseReceived"
	EventNetworkLoadingFinished   = "Network.loadingFinished"
	EventNetworkLoadingFailed     = "Network.loadingFailed"

	EventFetchRequestPaused = "Fetch.requestPaused"
	EventFetchAuthRequired  = "Fetch.authRequired"

	EventBrowserDownloadWillBegin = "Browser.downloadWillBegin"
	EventBrowserDownloadProgress  = "Browser.downloadProgress"

	EventTargetCreated   = "Target.targetCreated"
	EventTargetDestroyed = "Target.targetDestroyed"
	EventTargetCrashed   = "Target.targetCrashed"
)
