// Copyright 2025 Vulntor Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package hook provides the lifecycle extension mechanism shared by every component:
// named events that any component can subscribe callbacks to and any component can fire.
//
// Two usage modes run on the same primitive:
//   - filters thread a value through an ordered chain of subscribers, each of which may
//     transform it (Table.FireFilter)
//   - actions broadcast to subscribers for side effects only (Table.FireAction)
//
// Subscribers run in ascending priority order and, within one priority, in registration
// order. A subscriber may fire events (including the one currently running), and may
// register or unregister subscribers while a dispatch is in progress:
//
//	tbl := hook.NewTable()
//	tbl.Register("the_content", hook.Func("trim", trim), hook.WithPriority(5))
//	out := tbl.FireFilter("the_content", "  hello  ")
//
// Every fire is also observed by subscribers of the reserved AllEvent name, which receive
// the fired event name as their first argument.
//
// A Table is not safe for concurrent use. Reentrancy is ordinary nested calls on the
// goroutine that owns the table.
package hook
