package chain

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
	"github.com/arloliu/tdms/internal/hash"
	"github.com/arloliu/tdms/internal/options"
	"github.com/arloliu/tdms/internal/pool"
	"github.com/arloliu/tdms/metadata"
	"github.com/arloliu/tdms/section"
	"github.com/arloliu/tdms/source"
)

// Build walks the segments of src from offset 0 and builds the channel index.
//
// A failure in the first segment means src is not a TDMS file and returns
// ErrInvalidFile. A failure in a later segment stops the walk: the index
// covers the segments before it and carries an ErrPartialFile warning, unless
// WithStrict is set. A final segment shorter than its lead-in claims is
// indexed up to the last complete value with an ErrTruncatedFinalSegment warning.
// Raw data that ends inside a chunk of a complete segment keeps the values of
// that chunk and records an ErrIncompleteChunk warning.
//
// Parameters:
//   - src: Source holding the file bytes
//   - opts: Optional configuration
//
// Returns:
//   - *Index: The built index
//   - error: ErrInvalidFile, ErrPartialFile in strict mode, ErrInvalidOption,
//     or a wrapped source read error
func Build(src source.ByteSource, opts ...Option) (*Index, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	b := &builder{
		src:     src,
		cfg:     cfg,
		log:     cfg.logger,
		idx:     newIndex(src.Size()),
		history: metadata.NewHistory(),
	}

	if err := b.run(); err != nil {
		return nil, err
	}

	return b.idx, nil
}

// parsedObject is a listed object together with its split path.
type parsedObject struct {
	obj   *metadata.Object
	parts []string
}

// segmentResult is everything readSegment learned, applied by commit.
type segmentResult struct {
	seg       *Segment
	parsed    []parsedObject
	locations []entryLocation
	warning   error
}

type entryLocation struct {
	path string
	loc  Location
}

type metadataCache struct {
	valid   bool
	key     uint64
	size    int
	toc     section.TocFlag
	objects []metadata.Object
}

type builder struct {
	src     source.ByteSource
	cfg     *config
	log     *zap.Logger
	idx     *Index
	history *metadata.History
	objects []Entry // resolved object list of the previous segment
	cache   metadataCache
	hits    int
}

func (b *builder) run() error {
	size := b.src.Size()
	if size == 0 {
		return fmt.Errorf("%w: empty source", errs.ErrInvalidFile)
	}

	var offset int64
	for ordinal := 0; offset < size; ordinal++ {
		if ordinal > 0 && size-offset < section.LeadInSize {
			b.warn(fmt.Errorf("%w: %d trailing bytes at offset %d are too short for a lead-in",
				errs.ErrTruncatedFinalSegment, size-offset, offset))

			break
		}

		res, err := b.readSegment(ordinal, offset)
		if err != nil {
			if ordinal == 0 {
				return fmt.Errorf("%w: %w", errs.ErrInvalidFile, err)
			}

			partial := fmt.Errorf("%w: segment %d at offset %d: %w", errs.ErrPartialFile, ordinal, offset, err)
			if b.cfg.strict {
				return partial
			}

			b.idx.partial = true
			b.warn(partial)

			break
		}

		b.commit(res)

		seg := res.seg
		if seg.Truncated || !seg.LeadIn.IsTerminated() {
			break
		}
		offset = seg.Offset + section.LeadInSize + int64(seg.LeadIn.NextSegmentOffset)
	}

	b.log.Debug("index built",
		zap.Int("segments", len(b.idx.segments)),
		zap.Int("groups", len(b.idx.groups)),
		zap.Int("channels", len(b.idx.channels)),
		zap.Int("warnings", len(b.idx.warnings)),
		zap.Int("metadataCacheHits", b.hits))

	return nil
}

func (b *builder) warn(err error) {
	b.log.Warn("tdms index warning", zap.Error(err))
	b.idx.warnings = append(b.idx.warnings, err)
}

// readSegment parses the segment at offset without touching the index, so a
// corrupt segment leaves no trace in it.
func (b *builder) readSegment(ordinal int, offset int64) (*segmentResult, error) {
	buf := pool.GetMetadataBuffer()
	defer pool.PutMetadataBuffer(buf)

	if err := source.ReadExactInto(b.src, offset, buf.Resize(section.LeadInSize)); err != nil {
		return nil, fmt.Errorf("read lead-in: %w", err)
	}

	lead, err := section.ParseLeadIn(buf.Bytes())
	if err != nil {
		return nil, err
	}

	if !lead.KnownVersion() {
		b.log.Warn("unknown segment version",
			zap.Int("segment", ordinal), zap.Uint32("version", lead.Version))
	}

	if unknown := lead.Toc.UnknownBits(); unknown != 0 {
		b.log.Debug("unknown table of contents bits",
			zap.Int("segment", ordinal), zap.Uint32("bits", unknown))
	}

	seg := &Segment{Ordinal: ordinal, Offset: offset, LeadIn: lead}
	res := &segmentResult{seg: seg}

	dataStart := offset + section.LeadInSize
	available := uint64(max(b.src.Size()-dataStart, 0))
	length := available
	if lead.IsTerminated() {
		if lead.NextSegmentOffset <= available {
			length = lead.NextSegmentOffset
		} else {
			seg.Truncated = true
			res.warning = fmt.Errorf("%w: segment %d at offset %d declares %d bytes, %d available",
				errs.ErrTruncatedFinalSegment, ordinal, offset, lead.NextSegmentOffset, available)
		}
	}

	metaLen := lead.MetadataSize()
	if metaLen > b.cfg.maxMetadataSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", errs.ErrMetadataTooLarge, metaLen, b.cfg.maxMetadataSize)
	}

	if metaLen > length {
		return nil, fmt.Errorf("%w: metadata block of %d bytes, %d available", errs.ErrTruncatedData, metaLen, length)
	}

	seg.RawDataStart = dataStart + int64(metaLen)
	seg.RawDataEnd = dataStart + int64(length)
	if !lead.Toc.HasRawData() {
		seg.RawDataEnd = seg.RawDataStart
	}

	var objects []metadata.Object
	if lead.Toc.HasMetaData() {
		if objects, err = b.readMetadata(buf, lead, dataStart); err != nil {
			return nil, err
		}
	}

	res.parsed = make([]parsedObject, 0, len(objects))
	for i := range objects {
		parts, err := ParsePath(objects[i].Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrMalformedMetadata, err)
		}
		res.parsed = append(res.parsed, parsedObject{obj: &objects[i], parts: parts})
	}

	if seg.Objects, err = b.resolve(objects, lead.Toc); err != nil {
		return nil, err
	}

	places, chunkSize, err := placeObjects(seg)
	if err != nil {
		return nil, err
	}

	b.chunk(seg, chunkSize)
	res.locations = b.locate(seg, places)

	b.log.Debug("segment parsed",
		zap.Int("segment", ordinal),
		zap.Int64("offset", offset),
		zap.Stringer("toc", lead.Toc),
		zap.Uint32("version", lead.Version),
		zap.Int("objects", len(seg.Objects)),
		zap.Uint64("chunks", seg.Chunks))

	return res, nil
}

// readMetadata reads and parses the metadata block, reusing the previous
// segment's objects when the block is byte-identical.
func (b *builder) readMetadata(buf *pool.ByteBuffer, lead section.LeadIn, off int64) ([]metadata.Object, error) {
	data := buf.Resize(int(lead.MetadataSize()))
	if err := source.ReadExactInto(b.src, off, data); err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	if !b.cfg.metadataCache {
		return metadata.Parse(data, lead.Toc)
	}

	key := hash.Sum(data)
	toc := lead.Toc & (section.TocBigEndian | section.TocDAQmxRawData)
	if b.cache.valid && b.cache.key == key && b.cache.size == len(data) && b.cache.toc == toc {
		b.hits++
		b.log.Debug("metadata cache hit", zap.Uint64("key", key), zap.Int("size", len(data)))

		return b.cache.objects, nil
	}

	objects, err := metadata.Parse(data, lead.Toc)
	if err != nil {
		return nil, err
	}
	b.cache = metadataCache{valid: true, key: key, size: len(data), toc: toc, objects: objects}

	return objects, nil
}

// resolve produces the segment's object list with every Unchanged index
// replaced by the one it refers to.
func (b *builder) resolve(objects []metadata.Object, toc section.TocFlag) ([]Entry, error) {
	if !toc.HasMetaData() {
		return b.objects, nil
	}

	listed := make([]Entry, 0, len(objects))
	for _, obj := range objects {
		idx, err := b.history.Resolve(obj.Path, obj.Index)
		if err != nil {
			return nil, err
		}
		listed = append(listed, Entry{Path: obj.Path, Index: idx})
	}

	if toc.HasNewObjList() {
		return listed, nil
	}

	merged := slices.Clone(b.objects)
	pos := make(map[string]int, len(merged))
	for i, e := range merged {
		pos[e.Path] = i
	}

	for _, e := range listed {
		if i, ok := pos[e.Path]; ok {
			merged[i] = e
			continue
		}
		pos[e.Path] = len(merged)
		merged = append(merged, e)
	}

	return merged, nil
}

// chunk splits the raw data of seg into chunks. The bytes past the last
// complete chunk form a partial chunk holding every value fully inside them.
func (b *builder) chunk(seg *Segment, chunkSize uint64) {
	seg.ChunkSize = chunkSize

	raw := uint64(seg.RawDataSize())
	if chunkSize == 0 {
		if raw > 0 {
			b.log.Debug("raw data without channels",
				zap.Int("segment", seg.Ordinal), zap.Uint64("bytes", raw))
		}

		return
	}

	seg.Chunks = raw / chunkSize
	seg.PartialBytes = raw % chunkSize
}

func (b *builder) locate(seg *Segment, places []placement) []entryLocation {
	locs := make([]entryLocation, 0, len(places))
	for _, p := range places {
		e := seg.Objects[p.entry]
		loc := Location{
			Segment:   seg.Ordinal,
			Index:     e.Index,
			Layout:    p.layout,
			Engine:    seg.Engine(),
			Start:     seg.RawDataStart + int64(p.offset),
			Stride:    p.stride,
			ChunkSize: seg.ChunkSize,
			Chunks:    seg.Chunks,
		}
		if seg.PartialBytes > 0 {
			loc.PartialValues = partialValues(p, e.Index, seg.PartialBytes)
		}

		if loc.Len() == 0 {
			continue
		}
		locs = append(locs, entryLocation{path: e.Path, loc: loc})
	}

	return locs
}

// commit applies a parsed segment to the index.
func (b *builder) commit(res *segmentResult) {
	seg := res.seg
	b.idx.segments = append(b.idx.segments, seg)
	b.objects = seg.Objects

	if res.warning != nil {
		b.warn(res.warning)
	} else if seg.PartialBytes > 0 {
		sentinel := errs.ErrIncompleteChunk
		if !seg.LeadIn.IsTerminated() {
			sentinel = errs.ErrTruncatedFinalSegment
		}
		b.warn(fmt.Errorf("%w: segment %d at offset %d ends with %d bytes of an incomplete chunk of %d",
			sentinel, seg.Ordinal, seg.Offset, seg.PartialBytes, seg.ChunkSize))
	}

	for _, p := range res.parsed {
		switch len(p.parts) {
		case 0:
			b.idx.root.merge(p.obj.Properties)
		case 1:
			b.idx.ensureGroup(p.parts[0]).props.merge(p.obj.Properties)
		case 2:
			ch := b.idx.ensureChannel(p.parts[0], p.parts[1])
			ch.props.merge(p.obj.Properties)
			if ch.dataType == format.TypeVoid {
				if k := p.obj.Index.Kind; k == metadata.IndexPresent || k == metadata.IndexDAQmx {
					ch.dataType = p.obj.Index.DataType
				}
			}
		default:
			b.log.Debug("ignoring object below channel level", zap.String("path", p.obj.Path))
		}
	}

	for _, el := range res.locations {
		if ch, ok := b.idx.channelByPath[el.path]; ok {
			ch.addLocation(el.loc)
		}
	}
}
