package layout_test

import (
	"fmt"

	"github.com/arloliu/tdms/chain"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/tdmstest"
	"github.com/arloliu/tdms/layout"
	"github.com/arloliu/tdms/metadata"
	"github.com/arloliu/tdms/source"
)

func Example() {
	seg := tdmstest.Segment{
		Toc: tdmstest.NewList,
		Objects: []metadata.Object{
			tdmstest.Channel("Measurements", "Pressure", metadata.NewIndex(format.TypeDoubleFloat, 3),
				tdmstest.Prop("unit_string", format.TypeString, "kPa")),
		},
		Raw: tdmstest.Float64s(endian.GetLittleEndianEngine(), 101.3, 101.7, 99.8),
	}
	data, err := seg.Encode()
	if err != nil {
		panic(err)
	}

	src := source.FromBytes(data)
	idx, err := chain.Build(src)
	if err != nil {
		panic(err)
	}

	ch, err := idx.ChannelByName("Measurements", "Pressure")
	if err != nil {
		panic(err)
	}
	unit, _ := ch.Properties().String("unit_string")

	r, err := layout.NewReader(idx, src)
	if err != nil {
		panic(err)
	}

	for v, err := range r.Float64s(ch.Path()) {
		if err != nil {
			panic(err)
		}
		fmt.Printf("%.1f %s\n", v, unit)
	}

	// Output:
	// 101.3 kPa
	// 101.7 kPa
	// 99.8 kPa
}

func ExampleCollect() {
	seg := tdmstest.Segment{
		Toc:     tdmstest.NewList,
		Objects: []metadata.Object{tdmstest.Channel("g", "names", tdmstest.StringIndex("alpha", "beta"))},
		Raw:     tdmstest.Strings(endian.GetLittleEndianEngine(), "alpha", "beta"),
	}
	data, _ := seg.Encode()

	src := source.FromBytes(data)
	idx, _ := chain.Build(src)
	r, _ := layout.NewReader(idx, src)

	names, err := layout.Collect(r.Strings("/'g'/'names'"))
	fmt.Println(names, err)

	// Output:
	// [alpha beta] <nil>
}
