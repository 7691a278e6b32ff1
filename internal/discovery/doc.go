// Package discovery finds FHEMWEB instances on the local network via mDNS.
//
// FHEM announces its web frontends as "_http._tcp" services when the bonjour
// module is defined. Entries are kept when the instance name or a TXT record
// mentions FHEM; the "path" TXT record carries the FHEMWEB webname.
//
//	instances, err := discovery.NewScanner().Scan(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, inst := range instances {
//	    fmt.Println(inst.Name, inst.URL())
//	}
//
// Requires multicast on the network interface and UDP port 5353 open.
package discovery
