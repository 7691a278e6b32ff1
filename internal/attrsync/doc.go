// Package attrsync keeps the attribute fields of the HOMEMODE panel in sync
// with FHEM.
//
// A FieldBinding ties one editable field to an attribute of a sensor device.
// Engine.Commit validates an edit against the field's Rule, sends attr or
// deleteattr and refreshes the reading preview of HomeReading* fields:
//
//	engine := attrsync.NewEngine(client, "homeMode", attrsync.LanguageEN)
//	b := attrsync.NewFieldBinding("door.sensor", "HomeAlarmDelay", "", "")
//	if _, err := engine.Commit(ctx, b, "30 45 60"); err != nil {
//	    fmt.Println(attrsync.DialogText(err))
//	}
//
// Rejected values never reach FHEM. Failed requests are not retried and
// leave PreviousValue untouched.
package attrsync
