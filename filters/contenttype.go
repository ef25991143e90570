// Package filters implements parsing of ad-block style filter text into
// typed filter descriptors and matching of network requests against them.
package filters

import (
	"math/bits"
	"strings"
)

// ContentType is the bit-flag representation of request resource and context
// types.
type ContentType uint32

// Resource types occupy the low 24 bits.  The values are fixed by the
// deployed filter syntax, the gaps are left by retired types.
const (
	// TypeOther is any request type not covered by the other flags.
	TypeOther ContentType = 1 << 0
	// TypeScript is a script load ($script).
	TypeScript ContentType = 1 << 1
	// TypeImage is any image ($image).
	TypeImage ContentType = 1 << 2
	// TypeStylesheet is a CSS load ($stylesheet).
	TypeStylesheet ContentType = 1 << 3
	// TypeObject is a browser plugin resource ($object).
	TypeObject ContentType = 1 << 4
	// TypeSubdocument is a frame load ($subdocument).
	TypeSubdocument ContentType = 1 << 5
	// TypeWebsocket is a websocket connection ($websocket).
	TypeWebsocket ContentType = 1 << 7
	// TypeWebrtc is an RTC connection ($webrtc).
	TypeWebrtc ContentType = 1 << 8
	// TypePing is navigator.sendBeacon() or a ping attribute on links ($ping).
	TypePing ContentType = 1 << 10
	// TypeXmlhttprequest is an ajax/fetch request ($xmlhttprequest).
	TypeXmlhttprequest ContentType = 1 << 11
	// TypeMedia is an audio or video load ($media).
	TypeMedia ContentType = 1 << 14
	// TypeFont is a custom font load ($font).
	TypeFont ContentType = 1 << 15
)

// Special types occupy the bits above the resource range.  Negating a
// resource type never touches them.
const (
	// TypePopup marks filters that block pop-up windows ($popup).
	TypePopup ContentType = 1 << 24
	// TypeCSP marks filters that inject Content-Security-Policy ($csp).
	TypeCSP ContentType = 1 << 25
	// TypeHeader marks filters that match on response headers ($header).
	TypeHeader ContentType = 1 << 26
	// TypeDocument marks whole-document filters ($document).
	TypeDocument ContentType = 1 << 27
	// TypeGenericblock disables generic blocking filters ($genericblock).
	TypeGenericblock ContentType = 1 << 28
	// TypeElemhide disables element hiding ($elemhide).
	TypeElemhide ContentType = 1 << 29
	// TypeGenerichide disables generic element hiding ($generichide).
	TypeGenerichide ContentType = 1 << 30
)

// TypeResource is the union of all resource type bits.  It is the default
// mask of a filter with no type options.
const TypeResource ContentType = 1<<24 - 1

// TypeContext is the union of the context types, which restrict where a
// filter applies rather than what it applies to.  Only the resource bits gate
// a basic filter match.
const TypeContext = TypeCSP

// typesByName maps normalized option names to type bits.
var typesByName = map[string]ContentType{
	"other":          TypeOther,
	"script":         TypeScript,
	"image":          TypeImage,
	"stylesheet":     TypeStylesheet,
	"object":         TypeObject,
	"subdocument":    TypeSubdocument,
	"websocket":      TypeWebsocket,
	"webrtc":         TypeWebrtc,
	"ping":           TypePing,
	"xmlhttprequest": TypeXmlhttprequest,
	"media":          TypeMedia,
	"font":           TypeFont,
	"popup":          TypePopup,
	"csp":            TypeCSP,
	"header":         TypeHeader,
	"document":       TypeDocument,
	"genericblock":   TypeGenericblock,
	"elemhide":       TypeElemhide,
	"generichide":    TypeGenerichide,
}

// typeNames is the reverse of typesByName for single bits.
var typeNames = map[ContentType]string{}

func init() {
	for name, t := range typesByName {
		typeNames[t] = name
	}
}

// LookupType finds the content type bit for the given option name.  The
// lookup is case-insensitive and treats hyphens as underscores.  ok is false
// when the name does not denote a known type; the caller decides between an
// error and a default.
func LookupType(name string) (t ContentType, ok bool) {
	name = strings.ReplaceAll(strings.ToLower(name), "-", "_")
	t, ok = typesByName[name]

	return t, ok
}

// Count returns the count of the enabled flags.
func (t ContentType) Count() int {
	return bits.OnesCount32(uint32(t))
}

// Has reports whether every bit of other is set in t.
func (t ContentType) Has(other ContentType) bool {
	return t&other == other
}

// ClearResource returns t with the resource bits of other cleared.  Special
// bits of other are kept intact, so negating a type option never disables a
// special type.
func (t ContentType) ClearResource(other ContentType) ContentType {
	return t &^ (other & TypeResource)
}

// String returns the "|"-joined names of the enabled flags.
func (t ContentType) String() string {
	if t == 0 {
		return "none"
	}

	var names []string
	for i := 0; i < 32; i++ {
		bit := ContentType(1 << i)
		if t&bit != 0 {
			if name, ok := typeNames[bit]; ok {
				names = append(names, name)
			}
		}
	}

	if len(names) == 0 {
		return "unknown"
	}

	return strings.Join(names, "|")
}
