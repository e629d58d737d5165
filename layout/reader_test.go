package layout

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/tdms/chain"
	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/endian"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/tdmstest"
	"github.com/arloliu/tdms/metadata"
	"github.com/arloliu/tdms/section"
	"github.com/arloliu/tdms/source"
)

var (
	le = endian.GetLittleEndianEngine()
	be = endian.GetBigEndianEngine()
)

func newReader(t testing.TB, data []byte, opts ...Option) *Reader {
	t.Helper()

	src := source.FromBytes(data)
	idx, err := chain.Build(src)
	require.NoError(t, err)

	r, err := NewReader(idx, src, opts...)
	require.NoError(t, err)

	return r
}

type column struct {
	name   string
	typ    format.DataType
	values []any
}

func mixedColumns() []column {
	return []column{
		{"i16", format.TypeI16, []any{int16(-1), int16(2), int16(-300)}},
		{"u64", format.TypeU64, []any{uint64(1), uint64(1 << 40), uint64(1<<64 - 1)}},
		{"f32", format.TypeSingleFloatWithUnit, []any{float32(0.5), float32(-1.5), float32(3)}},
		{"ts", format.TypeTimeStamp, []any{
			encoding.Timestamp{Seconds: 1, Fractions: 2},
			encoding.Timestamp{Seconds: 3_700_000_000, Fractions: 1 << 63},
			encoding.Timestamp{Seconds: -5, Fractions: 0},
		}},
		{"c128", format.TypeComplexDoubleFloat, []any{complex(1, 2), complex(-3, 4), complex(0, -1)}},
		{"ext", format.TypeExtendedFloat, []any{
			encoding.ExtendedFromFloat64(1), encoding.ExtendedFromFloat64(-2.5), encoding.ExtendedFromFloat64(1e10),
		}},
		{"bool", format.TypeBoolean, []any{true, false, true}},
	}
}

// columnsFile writes the columns as one segment of group "g", interleaved
// when toc says so.
func columnsFile(t *testing.T, toc section.TocFlag, cols []column) []byte {
	t.Helper()

	engine := toc.GetEndianEngine()
	objects := make([]metadata.Object, 0, len(cols))
	encoded := make([][]byte, 0, len(cols))
	widths := make([]int, 0, len(cols))
	for _, c := range cols {
		objects = append(objects, tdmstest.Channel("g", c.name, metadata.NewIndex(c.typ, uint64(len(c.values)))))
		encoded = append(encoded, tdmstest.Values(t, engine, c.typ, c.values...))
		widths = append(widths, c.typ.Size())
	}

	var raw []byte
	if toc.IsInterleaved() {
		raw = tdmstest.Interleave(widths, encoded...)
	} else {
		for _, b := range encoded {
			raw = append(raw, b...)
		}
	}

	return tdmstest.File(t, tdmstest.Segment{Toc: toc, Objects: objects, Raw: raw})
}

func readColumns(t *testing.T, r *Reader, cols []column) map[string][]encoding.Value {
	t.Helper()

	out := make(map[string][]encoding.Value, len(cols))
	for _, c := range cols {
		values, err := Collect(r.Values(tdmstest.Path("g", c.name)))
		require.NoError(t, err, c.name)
		out[c.name] = values
	}

	return out
}

func TestTwoSegmentFloat64s(t *testing.T) {
	tests := []struct {
		name    string
		toc     section.TocFlag
		objects []metadata.Object
	}{
		{
			name:    "new index",
			toc:     tdmstest.Appended,
			objects: []metadata.Object{tdmstest.Channel("g", "c", metadata.NewIndex(format.TypeDoubleFloat, 2))},
		},
		{name: "raw only", toc: tdmstest.RawOnly},
		{
			name:    "unchanged index",
			toc:     tdmstest.Appended,
			objects: []metadata.Object{tdmstest.Channel("g", "c", metadata.UnchangedIndex())},
		},
	}

	for _, tt := range tests {
		for _, engine := range []endian.EndianEngine{le, be} {
			t.Run(tt.name+"/"+endian.Name(engine), func(t *testing.T) {
				first, second := tdmstest.NewList, tt.toc
				if endian.IsBigEndian(engine) {
					first.WithBigEndian()
					second.WithBigEndian()
				}

				data := tdmstest.File(t,
					tdmstest.Segment{
						Toc:     first,
						Objects: []metadata.Object{tdmstest.Channel("g", "c", metadata.NewIndex(format.TypeDoubleFloat, 3))},
						Raw:     tdmstest.Float64s(engine, 1, 2, 3),
					},
					tdmstest.Segment{Toc: second, Objects: tt.objects, Raw: tdmstest.Float64s(engine, 4, 5)},
				)

				r := newReader(t, data)
				values, err := Collect(r.Float64s("/'g'/'c'"))
				require.NoError(t, err)
				require.Equal(t, []float64{1, 2, 3, 4, 5}, values)
			})
		}
	}
}

func TestStandardInterleavedEquivalence(t *testing.T) {
	cols := mixedColumns()

	interleaved := tdmstest.NewList
	interleaved.WithInterleaved()

	standard := readColumns(t, newReader(t, columnsFile(t, tdmstest.NewList, cols)), cols)

	for _, window := range []int{1, 7, 16, DefaultReadWindow} {
		r := newReader(t, columnsFile(t, interleaved, cols), WithReadWindow(window))
		if diff := cmp.Diff(standard, readColumns(t, r, cols)); diff != "" {
			t.Fatalf("interleaved values differ with window %d (-standard +interleaved):\n%s", window, diff)
		}
	}

	for _, c := range cols {
		require.Len(t, standard[c.name], len(c.values))
		for i, v := range standard[c.name] {
			require.Equal(t, c.values[i], v.V)
			require.Equal(t, c.typ, v.Type)
		}
	}
}

func TestEndiannessEquivalence(t *testing.T) {
	cols := mixedColumns()

	big := tdmstest.NewList
	big.WithBigEndian()

	little := readColumns(t, newReader(t, columnsFile(t, tdmstest.NewList, cols)), cols)
	got := readColumns(t, newReader(t, columnsFile(t, big, cols)), cols)
	if diff := cmp.Diff(little, got); diff != "" {
		t.Fatalf("big-endian values differ (-little +big):\n%s", diff)
	}
}

func TestTypedAccessors(t *testing.T) {
	data := columnsFile(t, tdmstest.NewList, mixedColumns())
	r := newReader(t, data, WithReadWindow(5))

	i16, err := Collect(r.Int16s("/'g'/'i16'"))
	require.NoError(t, err)
	require.Equal(t, []int16{-1, 2, -300}, i16)

	u64, err := Collect(r.Uint64s("/'g'/'u64'"))
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 1 << 40, 1<<64 - 1}, u64)

	f32, err := Collect(r.Float32s("/'g'/'f32'"))
	require.NoError(t, err)
	require.Equal(t, []float32{0.5, -1.5, 3}, f32)

	ts, err := Collect(r.Timestamps("/'g'/'ts'"))
	require.NoError(t, err)
	require.Equal(t, encoding.Timestamp{Seconds: 3_700_000_000, Fractions: 1 << 63}, ts[1])

	c128, err := Collect(r.Complex128s("/'g'/'c128'"))
	require.NoError(t, err)
	require.Equal(t, []complex128{complex(1, 2), complex(-3, 4), complex(0, -1)}, c128)

	ext, err := Collect(r.Extendeds("/'g'/'ext'"))
	require.NoError(t, err)
	require.InDelta(t, -2.5, ext[1].Float64(), 0)

	bools, err := Collect(r.Bools("/'g'/'bool'"))
	require.NoError(t, err)
	require.Equal(t, []bool{true, false, true}, bools)
}

func TestSmallIntegerAccessors(t *testing.T) {
	cols := []column{
		{"i8", format.TypeI8, []any{int8(-1), int8(7)}},
		{"i32", format.TypeI32, []any{int32(-70000), int32(1)}},
		{"i64", format.TypeI64, []any{int64(-1 << 40), int64(2)}},
		{"u8", format.TypeU8, []any{uint8(255), uint8(0)}},
		{"u16", format.TypeU16, []any{uint16(65535), uint16(1)}},
		{"u32", format.TypeU32, []any{uint32(1 << 31), uint32(3)}},
		{"c64", format.TypeComplexSingleFloat, []any{complex64(complex(1, -1)), complex64(complex(0, 2))}},
		{"fx", format.TypeFixedPoint, []any{encoding.FixedPoint{1, 2, 3}, encoding.FixedPoint{9}}},
	}

	toc := tdmstest.NewList
	toc.WithBigEndian()
	r := newReader(t, columnsFile(t, toc, cols))

	i8, err := Collect(r.Int8s("/'g'/'i8'"))
	require.NoError(t, err)
	require.Equal(t, []int8{-1, 7}, i8)

	i32, err := Collect(r.Int32s("/'g'/'i32'"))
	require.NoError(t, err)
	require.Equal(t, []int32{-70000, 1}, i32)

	i64, err := Collect(r.Int64s("/'g'/'i64'"))
	require.NoError(t, err)
	require.Equal(t, []int64{-1 << 40, 2}, i64)

	u8, err := Collect(r.Uint8s("/'g'/'u8'"))
	require.NoError(t, err)
	require.Equal(t, []uint8{255, 0}, u8)

	u16, err := Collect(r.Uint16s("/'g'/'u16'"))
	require.NoError(t, err)
	require.Equal(t, []uint16{65535, 1}, u16)

	u32, err := Collect(r.Uint32s("/'g'/'u32'"))
	require.NoError(t, err)
	require.Equal(t, []uint32{1 << 31, 3}, u32)

	c64, err := Collect(r.Complex64s("/'g'/'c64'"))
	require.NoError(t, err)
	require.Equal(t, []complex64{complex(1, -1), complex(0, 2)}, c64)

	fx, err := Collect(r.FixedPoints("/'g'/'fx'"))
	require.NoError(t, err)
	require.Equal(t, []encoding.FixedPoint{{1, 2, 3}, {9}}, fx)
}

func TestTypeMismatch(t *testing.T) {
	r := newReader(t, columnsFile(t, tdmstest.NewList, mixedColumns()))

	require.NoError(t, r.CheckType("/'g'/'f32'", format.TypeSingleFloat))
	require.NoError(t, r.CheckType("/'g'/'f32'", format.TypeSingleFloatWithUnit))
	require.ErrorIs(t, r.CheckType("/'g'/'f32'", format.TypeDoubleFloat), errs.ErrTypeMismatch)
	require.ErrorIs(t, r.CheckType("/'g'/'nope'", format.TypeDoubleFloat), errs.ErrChannelNotFound)

	values, err := Collect(r.Int32s("/'g'/'f32'"))
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
	require.Empty(t, values)

	_, err = Collect(r.Strings("/'g'/'i16'"))
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = Collect(r.DAQmxSamples("/'g'/'i16'"))
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = Collect(r.Values("/'g'/'nope'"))
	require.ErrorIs(t, err, errs.ErrChannelNotFound)
}

func TestTruncatedSource(t *testing.T) {
	data := tdmstest.File(t, tdmstest.Segment{
		Toc:     tdmstest.NewList,
		Objects: []metadata.Object{tdmstest.Channel("g", "c", metadata.NewIndex(format.TypeDoubleFloat, 3))},
		Raw:     tdmstest.Float64s(le, 1, 2, 3),
	})

	idx, err := chain.Build(source.FromBytes(data))
	require.NoError(t, err)

	for _, window := range []int{8, 16, DefaultReadWindow} {
		core, logs := observer.New(zap.DebugLevel)
		r, err := NewReader(idx, source.FromBytes(data[:len(data)-4]), WithReadWindow(window), WithLogger(zap.New(core)))
		require.NoError(t, err)

		values, err := Collect(r.Float64s("/'g'/'c'"))
		require.ErrorIs(t, err, errs.ErrTruncatedData, "window %d", window)
		require.Equal(t, []float64{1, 2}, values, "window %d", window)
		require.Equal(t, 1, logs.FilterMessage("channel sequence stopped").Len())
	}
}

func TestTruncatedSourceDAQmx(t *testing.T) {
	toc := tdmstest.NewList
	toc.WithDAQmxRawData()

	idx := daqmxIndex(metadata.DAQmxFormatChangingMarker, 3, []uint32{2, 2},
		metadata.Scaler{DataType: format.TypeI16, RawBufferIndex: 0},
		metadata.Scaler{DataType: format.TypeU16, RawBufferIndex: 1, ScaleID: 1},
	)
	raw := tdmstest.Values(t, le, format.TypeI16, int16(1), int16(2), int16(3))
	raw = append(raw, tdmstest.Values(t, le, format.TypeU16, uint16(10), uint16(20), uint16(30))...)

	data := tdmstest.File(t, tdmstest.Segment{
		Toc:     toc,
		Objects: []metadata.Object{tdmstest.Channel("daq", "ai", idx)},
		Raw:     raw,
	})

	index, err := chain.Build(source.FromBytes(data))
	require.NoError(t, err)

	for _, window := range []int{4, DefaultReadWindow} {
		r, err := NewReader(index, source.FromBytes(data[:len(data)-2]), WithReadWindow(window))
		require.NoError(t, err)

		samples, err := Collect(r.DAQmxSamples("/'daq'/'ai'"))
		require.ErrorIs(t, err, errs.ErrTruncatedData, "window %d", window)
		require.Len(t, samples, 2, "window %d", window)
		require.Equal(t, encoding.MustValue(format.TypeI16, int16(2)), samples[1].Values[0].Value)
		require.Equal(t, encoding.MustValue(format.TypeU16, uint16(20)), samples[1].Values[1].Value)
	}
}

func TestTruncatedFinalSegmentValues(t *testing.T) {
	data := tdmstest.File(t,
		tdmstest.Segment{
			Toc:     tdmstest.NewList,
			Objects: []metadata.Object{tdmstest.Channel("g", "c", metadata.NewIndex(format.TypeDoubleFloat, 3))},
			Raw:     tdmstest.Float64s(le, 1, 2, 3),
		},
		tdmstest.Segment{Toc: tdmstest.RawOnly, Raw: tdmstest.Float64s(le, 4, 5, 6)},
	)
	data = data[:len(data)-12]

	r := newReader(t, data)
	require.Len(t, r.Index().Warnings(), 1)

	values, err := Collect(r.Float64s("/'g'/'c'"))
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4}, values)
}

func TestInterleavedPartialChunk(t *testing.T) {
	toc := tdmstest.NewList
	toc.WithInterleaved()

	raw := tdmstest.Interleave([]int{4, 8},
		tdmstest.Int32s(le, 1, 2, 3, 4), tdmstest.Float64s(le, 10, 20, 30, 40))

	data := tdmstest.File(t, tdmstest.Segment{
		Toc: toc,
		Objects: []metadata.Object{
			tdmstest.Channel("g", "i", metadata.NewIndex(format.TypeI32, 2)),
			tdmstest.Channel("g", "d", metadata.NewIndex(format.TypeDoubleFloat, 2)),
		},
		// Second chunk is cut inside the double of its last stride.
		Raw:          raw[:len(raw)-2],
		Unterminated: true,
	})

	r := newReader(t, data)

	ints, err := Collect(r.Int32s("/'g'/'i'"))
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3, 4}, ints)

	doubles, err := Collect(r.Float64s("/'g'/'d'"))
	require.NoError(t, err)
	require.Equal(t, []float64{10, 20, 30}, doubles)
}

func TestStrings(t *testing.T) {
	big := tdmstest.Appended
	big.WithBigEndian()

	first := []string{"ab", "", "héllo"}
	second := []string{"x", "yz"}

	data := tdmstest.File(t,
		tdmstest.Segment{
			Toc: tdmstest.NewList,
			Objects: []metadata.Object{
				tdmstest.Channel("g", "s", tdmstest.StringIndex(first...)),
				tdmstest.Channel("g", "n", metadata.NewIndex(format.TypeI32, 1)),
			},
			Raw: append(tdmstest.Strings(le, first...), tdmstest.Int32s(le, 42)...),
		},
		tdmstest.Segment{
			Toc:     big,
			Objects: []metadata.Object{tdmstest.Channel("g", "s", tdmstest.StringIndex(second...))},
			Raw:     append(tdmstest.Strings(be, second...), tdmstest.Int32s(be, 43)...),
		},
	)

	r := newReader(t, data)
	values, err := Collect(r.Strings("/'g'/'s'"))
	require.NoError(t, err)
	require.Equal(t, []string{"ab", "", "héllo", "x", "yz"}, values)

	ints, err := Collect(r.Int32s("/'g'/'n'"))
	require.NoError(t, err)
	require.Equal(t, []int32{42, 43}, ints)

	tagged, err := Collect(r.Values("/'g'/'s'"))
	require.NoError(t, err)
	require.Equal(t, encoding.MustValue(format.TypeString, "yz"), tagged[4])
}

func TestMalformedStrings(t *testing.T) {
	t.Run("invalid utf-8", func(t *testing.T) {
		data := tdmstest.File(t, tdmstest.Segment{
			Toc:     tdmstest.NewList,
			Objects: []metadata.Object{tdmstest.Channel("g", "s", metadata.NewStringIndex(1, 6))},
			Raw:     append(le.AppendUint32(nil, 2), 0xC3, 0x28),
		})

		_, err := Collect(newReader(t, data).Strings("/'g'/'s'"))
		require.ErrorIs(t, err, errs.ErrMalformedString)
	})

	t.Run("offset past end", func(t *testing.T) {
		data := tdmstest.File(t, tdmstest.Segment{
			Toc:     tdmstest.NewList,
			Objects: []metadata.Object{tdmstest.Channel("g", "s", metadata.NewStringIndex(1, 6))},
			Raw:     append(le.AppendUint32(nil, 9), 'a', 'b'),
		})

		_, err := Collect(newReader(t, data).Strings("/'g'/'s'"))
		require.ErrorIs(t, err, errs.ErrMalformedString)
	})
}

func daqmxIndex(marker uint32, n uint64, widths []uint32, scalers ...metadata.Scaler) metadata.RawDataIndex {
	return metadata.RawDataIndex{
		Kind:           metadata.IndexDAQmx,
		DataType:       format.TypeDAQmxRawData,
		ArrayDimension: 1,
		NumberOfValues: n,
		DAQmx:          &metadata.DAQmxIndex{Marker: marker, Scalers: scalers, RawDataWidths: widths},
	}
}

func TestDAQmxSamples(t *testing.T) {
	for _, engine := range []endian.EndianEngine{le, be} {
		t.Run(endian.Name(engine), func(t *testing.T) {
			toc := tdmstest.NewList
			toc.WithDAQmxRawData()
			if endian.IsBigEndian(engine) {
				toc.WithBigEndian()
			}

			idx := daqmxIndex(metadata.DAQmxFormatChangingMarker, 2, []uint32{4, 2},
				metadata.Scaler{DataType: format.TypeI16, RawBufferIndex: 0, RawByteOffset: 0},
				metadata.Scaler{DataType: format.TypeI16, RawBufferIndex: 0, RawByteOffset: 2, ScaleID: 1},
				metadata.Scaler{DataType: format.TypeU16, RawBufferIndex: 1, RawByteOffset: 0, ScaleID: 2},
			)

			// Buffer 0 holds both rows of the I16 pair, then buffer 1 the U16 rows.
			raw := tdmstest.Values(t, engine, format.TypeI16, int16(1), int16(-1), int16(2), int16(-2))
			raw = append(raw, tdmstest.Values(t, engine, format.TypeU16, uint16(100), uint16(200))...)

			data := tdmstest.File(t,
				tdmstest.Segment{
					Toc:     toc,
					Objects: []metadata.Object{tdmstest.Channel("daq", "ai", idx)},
					Raw:     raw,
				},
				tdmstest.Segment{Toc: toc &^ section.TocMetaData, Raw: raw},
			)

			for _, window := range []int{1, 6, DefaultReadWindow} {
				r := newReader(t, data, WithReadWindow(window))
				samples, err := Collect(r.DAQmxSamples("/'daq'/'ai'"))
				require.NoError(t, err)
				require.Len(t, samples, 4)

				require.Equal(t, 0, samples[1].Segment)
				require.Equal(t, 1, samples[3].Segment)
				require.Len(t, samples[1].Values, 3)
				require.Equal(t, encoding.MustValue(format.TypeI16, int16(2)), samples[1].Values[0].Value)
				require.Equal(t, encoding.MustValue(format.TypeI16, int16(-2)), samples[1].Values[1].Value)
				require.Equal(t, encoding.MustValue(format.TypeU16, uint16(200)), samples[1].Values[2].Value)
				require.Equal(t, uint32(2), samples[1].Values[2].Scaler.ScaleID)
				require.Equal(t, encoding.MustValue(format.TypeI16, int16(1)), samples[2].Values[0].Value)
			}
		})
	}
}

func TestDAQmxDigitalLines(t *testing.T) {
	toc := tdmstest.NewList
	toc.WithDAQmxRawData()

	line := func(bit uint32) metadata.RawDataIndex {
		return daqmxIndex(metadata.DAQmxDigitalLineMarker, 3, []uint32{1},
			metadata.Scaler{DataType: format.TypeU8, RawBufferIndex: 0, RawByteOffset: bit, DigitalLine: true})
	}

	data := tdmstest.File(t, tdmstest.Segment{
		Toc: toc,
		Objects: []metadata.Object{
			tdmstest.Channel("dio", "line0", line(0)),
			tdmstest.Channel("dio", "line3", line(3)),
		},
		Raw: []byte{0b1001, 0b0001, 0b1000},
	})

	r := newReader(t, data)
	bits := func(path string) []bool {
		samples, err := Collect(r.DAQmxSamples(path))
		require.NoError(t, err)

		out := make([]bool, 0, len(samples))
		for _, s := range samples {
			b, ok := s.Values[0].Value.Bool()
			require.True(t, ok)
			out = append(out, b)
		}

		return out
	}

	require.Equal(t, []bool{true, true, false}, bits("/'dio'/'line0'"))
	require.Equal(t, []bool{true, false, true}, bits("/'dio'/'line3'"))
}

func TestEarlyBreak(t *testing.T) {
	data := tdmstest.File(t, tdmstest.Segment{
		Toc:     tdmstest.NewList,
		Objects: []metadata.Object{tdmstest.Channel("g", "c", metadata.NewIndex(format.TypeDoubleFloat, 100))},
		Raw:     tdmstest.Float64s(le, make([]float64, 100)...),
	})

	r := newReader(t, data, WithReadWindow(16))

	var n int
	for _, err := range r.Float64s("/'g'/'c'") {
		require.NoError(t, err)
		n++
		if n == 5 {
			break
		}
	}
	require.Equal(t, 5, n)
}

func TestConcurrentSequences(t *testing.T) {
	values := make([]float64, 1000)
	for i := range values {
		values[i] = float64(i)
	}

	data := tdmstest.File(t, tdmstest.Segment{
		Toc:     tdmstest.NewList,
		Objects: []metadata.Object{tdmstest.Channel("g", "c", metadata.NewIndex(format.TypeDoubleFloat, 1000))},
		Raw:     tdmstest.Float64s(le, values...),
	})

	r := newReader(t, data, WithReadWindow(64))

	var wg sync.WaitGroup
	results := make([][]float64, 8)
	failures := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], failures[i] = Collect(r.Float64s("/'g'/'c'"))
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, failures[i])
		require.Equal(t, values, results[i])
	}
}

func TestReaderOptions(t *testing.T) {
	idx, err := chain.Build(source.FromBytes(columnsFile(t, tdmstest.NewList, mixedColumns())))
	require.NoError(t, err)

	_, err = NewReader(idx, source.FromBytes(nil), WithReadWindow(0))
	require.ErrorIs(t, err, errs.ErrInvalidOption)

	_, err = NewReader(idx, source.FromBytes(nil), WithLogger(nil))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}
