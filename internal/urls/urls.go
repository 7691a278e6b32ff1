package urls

// Documentation URLs shown in troubleshooting hints.

// CommandRef is the FHEM command reference
const CommandRef = "https://fhem.de/commandref.html"

// HOMEMODE documents the HOMEMODE module and its Home* attributes.
const HOMEMODE = CommandRef + "#HOMEMODE"

// FHEMWEB documents the web frontend, including the csrfToken attribute
// and the webname the panel connects to.
const FHEMWEB = CommandRef + "#FHEMWEB"

// HOMEMODEWiki is the community guide to setting up HOMEMODE sensors.
const HOMEMODEWiki = "https://wiki.fhem.de/wiki/HOMEMODE"

// Hint formats a documentation link for a troubleshooting list
func Hint(topic, url string) string {
	return topic + ": " + url
}
