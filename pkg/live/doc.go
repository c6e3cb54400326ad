// Package live streams reactively-produced values to WebSocket clients.
//
// A Server owns one render function. Each connected client gets a
// Session whose effect re-runs the render function whenever any store
// path it read changes, and pushes the rendered value to the client as a
// JSON snapshot frame. Clients submit patch frames, which the server
// applies through an application-provided apply function; the store's
// patch contract then notifies only the paths that actually changed, so
// every other session re-renders only if it read one of them.
//
//	store := stores.NewStore(State{...})
//	srv := live.NewServer(
//	    func() any { v, _ := stores.Get[State](store); return v },
//	    func(data json.RawMessage) error {
//	        var next State
//	        if err := json.Unmarshal(data, &next); err != nil {
//	            return err
//	        }
//	        store.Patch(next)
//	        return nil
//	    },
//	)
//	http.ListenAndServe(":8080", srv.Handler())
//
// The handler also serves Prometheus metrics on /metrics and a health
// check on /healthz. Inbound frames are traced with OpenTelemetry.
package live
