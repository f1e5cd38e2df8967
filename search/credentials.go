package search

import (
	"fmt"
	"strings"

	"github.com/fwojciec/websift"
)

const (
	googleKeyDocs = "https://console.cloud.google.com/marketplace/product/google/customsearch.googleapis.com"
	googleCSEDocs = "https://developers.google.com/custom-search/v1/introduction"
	bingDocs      = "https://learn.microsoft.com/en-us/previous-versions/bing/search-apis/bing-web-search/create-bing-search-service-resource"
)

// missingCredential explains how to set variable on goos.
func missingCredential(goos, variable, docs string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s not found.\n\nSet it using:\n\n", variable)
	switch goos {
	case "windows":
		fmt.Fprintf(&b, "Windows (Command Prompt):\n  setx %s \"your_key_here\"\n\n", variable)
		fmt.Fprintf(&b, "Windows (PowerShell):\n  setx %s \"your_key_here\"\n", variable)
	case "linux", "darwin":
		fmt.Fprintf(&b, "Linux / macOS:\n  export %s=your_key_here\n", variable)
	default:
		fmt.Fprintf(&b, "Set the environment variable in your system shell:\n  %s=your_key_here\n", variable)
	}
	fmt.Fprintf(&b, "\nDocumentation:\n%s\n", docs)
	b.WriteString("If you get this error even after setting environment variable close the terminal and open it again")
	return websift.Errorf(websift.ECREDENTIAL, "%s", b.String())
}
