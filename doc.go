// Package pydoll is a high level Chrome DevTools Protocol client that
// drives Chromium-family browsers over a websocket with no WebDriver in
// between.
//
// A Browser spawns the browser process with a debugging port, discovers
// the DevTools endpoint, and keeps a canonical registry of targets; each
// Tab owns its own connection to one target and exposes navigation,
// script execution, element finding, network capture, screenshots, PDFs,
// dialogs, downloads and iframe access. Elements located through a Tab
// come back as WebElements: remote object handles supporting realistic
// clicks, typing, keyboard events and element screenshots.
//
//	browser, tab, err := pydoll.Run(ctx, pydoll.Headless())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer browser.Stop(context.Background())
//
//	if err := tab.GoTo(ctx, "https://example.org"); err != nil {
//		log.Fatal(err)
//	}
//	el, err := tab.Find(ctx, pydoll.FindByTag("h1"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	text, _ := el.Text(ctx)
package pydoll
