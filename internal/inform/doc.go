// Package inform subscribes to FHEMWEB's websocket update stream.
//
// FHEMWEB pushes every changed reading as a line ["informid","value","html"]
// to clients that connect with an inform=type=status;filter=<devspec>;fmt=JSON
// parameter. Previews routes those events to the reading previews of the
// panel, so a preview keeps following its reading after a commit.
//
//	stream, err := inform.Dial(ctx, client, "homeMode,door.sensor")
//	if err != nil {
//	    return err
//	}
//	return stream.Listen(ctx, func(ev inform.Event) {
//	    previews.Apply(ev)
//	})
package inform
