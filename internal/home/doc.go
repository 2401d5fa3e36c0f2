// Package home is the room and device registry served over the RPC API.
//
// A Home maps room names to the devices they contain. Device names are
// unique within a room; a device is addressed across the home by its
// path, "room=>device".
//
// Reports render every device (CreateReport) or only the devices a
// Provider selects (CreateFilteredReport). Providers collapse the
// "which devices am I interested in" question into a single method, so a
// JSON filter sent by a client and a by-kind filter share one report path.
//
// # Usage
//
//	h, err := home.FromConfig(cfg.Home)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(h.CreateReport())
//
//	filter, err := home.ParseProvider(raw)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(h.CreateFilteredReport(filter))
package home
