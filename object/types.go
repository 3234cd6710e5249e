// Package object implements the Remote Object kernel and the Object
// Registry: the GUID-addressed graph of driver-side entities mirrored
// client-side.
package object

// Type is the closed enumeration of remote object kinds the driver can
// create.
type Type string

// The closed set of remote object types.
const (
	TypePlaywright     Type = "Playwright"
	TypeBrowserType    Type = "BrowserType"
	TypeBrowser        Type = "Browser"
	TypeBrowserContext Type = "BrowserContext"
	TypePage           Type = "Page"
	TypeFrame          Type = "Frame"
	TypeElementHandle  Type = "ElementHandle"
	TypeJSHandle       Type = "JSHandle"
	TypeWorker         Type = "Worker"
	TypeRequest        Type = "Request"
	TypeResponse       Type = "Response"
	TypeRoute          Type = "Route"
	TypeConsoleMessage Type = "ConsoleMessage"
	TypeDialog         Type = "Dialog"
	TypeDownload       Type = "Download"
	TypeSelectors      Type = "Selectors"
	TypeBindingCall    Type = "BindingCall"
	TypeStream         Type = "Stream"
	TypeCDPSession     Type = "CDPSession"
	TypeVideo          Type = "Video"
	TypeAccessibility  Type = "Accessibility"
)

// RootGUID is the well-known guid of the root Playwright object, created
// before any other object.
const RootGUID = "Playwright"
