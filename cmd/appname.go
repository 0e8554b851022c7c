package cmd

// appName is the name the binary reports in usage and version output
var appName = "mksha1"

// SetAppName overrides the reported name, for builds shipped under another
// binary name.
func SetAppName(name string) {
	if name != "" {
		appName = name
	}
}

func GetAppName() string {
	return appName
}
