package chain

import (
	"fmt"

	"github.com/arloliu/tdms/encoding"
	"github.com/arloliu/tdms/errs"
	"github.com/arloliu/tdms/format"
)

// Index is the parsed structure of a TDMS file: its segments, groups,
// channels and properties. It is read-only once Build returns and may be
// shared between goroutines.
type Index struct {
	size          int64
	segments      []*Segment
	root          *Properties
	groups        []*Group
	groupByName   map[string]*Group
	channels      []*Channel
	channelByPath map[string]*Channel
	warnings      []error
	partial       bool
}

func newIndex(size int64) *Index {
	return &Index{
		size:          size,
		root:          newProperties(),
		groupByName:   make(map[string]*Group),
		channelByPath: make(map[string]*Channel),
	}
}

// Size returns the size of the indexed source in bytes.
func (x *Index) Size() int64 {
	return x.size
}

// Segments returns the parsed segments in file order. The segments must not be modified.
func (x *Index) Segments() []*Segment {
	return append([]*Segment(nil), x.segments...)
}

// Segment returns the segment with the given ordinal.
func (x *Index) Segment(ordinal int) (*Segment, bool) {
	if ordinal < 0 || ordinal >= len(x.segments) {
		return nil, false
	}

	return x.segments[ordinal], true
}

// Properties returns the properties of the file object "/".
func (x *Index) Properties() *Properties {
	return x.root
}

// Groups returns the groups in the order they first appear.
func (x *Index) Groups() []*Group {
	return append([]*Group(nil), x.groups...)
}

// Group returns the named group.
func (x *Index) Group(name string) (*Group, error) {
	g, ok := x.groupByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrGroupNotFound, name)
	}

	return g, nil
}

// Channels returns every channel in the order they first appear.
func (x *Index) Channels() []*Channel {
	return append([]*Channel(nil), x.channels...)
}

// Channel returns the channel with the given object path, such as "/'group'/'channel'".
func (x *Index) Channel(path string) (*Channel, error) {
	ch, ok := x.channelByPath[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrChannelNotFound, path)
	}

	return ch, nil
}

// ChannelByName returns a channel by its unquoted group and channel names.
func (x *Index) ChannelByName(group, channel string) (*Channel, error) {
	return x.Channel(ChannelPath(group, channel))
}

// Warnings returns the problems that did not stop the walk: a truncated final
// segment or the corrupt segment that ended a partial file.
func (x *Index) Warnings() []error {
	return append([]error(nil), x.warnings...)
}

// Partial reports whether the walk stopped at a corrupt segment.
func (x *Index) Partial() bool {
	return x.partial
}

func (x *Index) ensureGroup(name string) *Group {
	if g, ok := x.groupByName[name]; ok {
		return g
	}

	g := &Group{name: name, path: GroupPath(name), props: newProperties()}
	x.groups = append(x.groups, g)
	x.groupByName[name] = g

	return g
}

func (x *Index) ensureChannel(group, name string) *Channel {
	path := ChannelPath(group, name)
	if ch, ok := x.channelByPath[path]; ok {
		return ch
	}

	g := x.ensureGroup(group)
	ch := &Channel{path: path, group: group, name: name, props: newProperties()}
	g.channels = append(g.channels, ch)
	x.channels = append(x.channels, ch)
	x.channelByPath[path] = ch

	return ch
}

// Group is a named collection of channels.
type Group struct {
	name     string
	path     string
	props    *Properties
	channels []*Channel
}

// Name returns the unquoted group name.
func (g *Group) Name() string { return g.name }

// Path returns the object path of the group.
func (g *Group) Path() string { return g.path }

// Properties returns the merged group properties.
func (g *Group) Properties() *Properties { return g.props }

// Channels returns the group's channels in the order they first appear.
func (g *Group) Channels() []*Channel {
	return append([]*Channel(nil), g.channels...)
}

// Channel returns the named channel of the group.
func (g *Group) Channel(name string) (*Channel, error) {
	for _, ch := range g.channels {
		if ch.name == name {
			return ch, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrChannelNotFound, ChannelPath(g.name, name))
}

// Channel is a sequence of values spread over one or more segments.
type Channel struct {
	path      string
	group     string
	name      string
	dataType  format.DataType
	props     *Properties
	locations []Location
	length    uint64
}

// Path returns the object path of the channel.
func (c *Channel) Path() string { return c.path }

// Group returns the unquoted name of the owning group.
func (c *Channel) Group() string { return c.group }

// Name returns the unquoted channel name.
func (c *Channel) Name() string { return c.name }

// DataType returns the type of the channel's first raw data index, or
// TypeVoid for a channel that never had one.
func (c *Channel) DataType() format.DataType { return c.dataType }

// Len returns the total number of values over all locations.
func (c *Channel) Len() uint64 { return c.length }

// Locations returns where the channel's values are stored, in segment order.
func (c *Channel) Locations() []Location {
	return append([]Location(nil), c.locations...)
}

// Properties returns the merged channel properties.
func (c *Channel) Properties() *Properties { return c.props }

// Property returns the named channel property.
func (c *Channel) Property(name string) (encoding.Value, bool) {
	return c.props.Get(name)
}

func (c *Channel) addLocation(loc Location) {
	c.locations = append(c.locations, loc)
	c.length += loc.Len()
}
