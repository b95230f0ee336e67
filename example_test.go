// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stingray_test

import (
	"fmt"

	"cogentcore.org/stingray"
)

type EventList struct {
	Time   []float64
	Energy []float64
	MJDRef float64 `stingray:"mjdref"`
}

func (ev *EventList) MainArrayAttr() string { return "time" }

func Example() {
	ev := &EventList{
		Time:   []float64{0.1, 0.5, 2.2},
		Energy: []float64{3.2, 6.4, 10},
		MJDRef: 55197,
	}
	fmt.Println(stingray.ArrayAttrs(ev))
	fmt.Println(stingray.MetaAttrs(ev))

	dt, err := stingray.ToTable(ev)
	if err != nil {
		panic(err)
	}
	rt, err := stingray.FromTable[EventList](dt)
	if err != nil {
		panic(err)
	}
	fmt.Println(stingray.ArrayAttrs(rt), rt.MJDRef)
	// Output:
	// [time energy]
	// [mjdref]
	// [time energy] 55197
}
