package search

import (
	"fmt"
	"strings"
)

// OfficialSites is the curated allow-list of technical-support domains
// every search query is restricted to.
var OfficialSites = []string{
	// Official manufacturer support
	"support.microsoft.com",
	"support.apple.com",
	"support.lenovo.com",
	"support.hp.com",
	"dell.com/support",
	"acer.com/support",
	"asus.com/support",
	"support.intel.com",
	"nvidia.com/support",

	// Popular tech support websites
	"techspot.com",
	"tomshardware.com",
	"bleepingcomputer.com",
	"majorgeeks.com",
	"howtogeek.com",
	"digitaltrends.com",
	"techrepublic.com",
	"pcmag.com",
	"computerworld.com",
	"makeuseof.com",
	"lifewire.com",

	// Forums and communities
	"superuser.com",
	"stackoverflow.com",
	"askubuntu.com",
	"tenforums.com",
	"windowsreport.com",
	"sevenforums.com",
	"linux.org",
	"reddit.com/r/techsupport",

	// News and troubleshooting
	"techradar.com",
	"theverge.com",
	"techcommunity.microsoft.com",
	"recoverit.wondershare.com",
}

// RestrictQuery scopes a free-text query to the given domains using
// OR'd site filters: "{query} (site:d1 OR site:d2 OR ...)".
// Domains are inserted verbatim; the query content is not validated.
func RestrictQuery(query string, sites []string) string {
	restrictions := make([]string, len(sites))
	for i, site := range sites {
		restrictions[i] = fmt.Sprintf("site:%s", site)
	}
	return fmt.Sprintf("%s (%s)", query, strings.Join(restrictions, " OR "))
}
