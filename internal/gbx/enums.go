package gbx

import (
	"fmt"
	"strings"
)

// Every enumerated field uses -1 for values the decoder does not recognise.
const unknown = -1

// Environment is the map collection.
type Environment int

const (
	EnvironmentUnknown Environment = unknown
	EnvironmentStadium Environment = 0
	EnvironmentCanyon  Environment = 1
	EnvironmentValley  Environment = 2
	EnvironmentLagoon  Environment = 3
	EnvironmentStorm   Environment = 4
)

var environmentNames = map[Environment]string{
	EnvironmentUnknown: "Unknown",
	EnvironmentStadium: "Stadium",
	EnvironmentCanyon:  "Canyon",
	EnvironmentValley:  "Valley",
	EnvironmentLagoon:  "Lagoon",
	EnvironmentStorm:   "Storm",
}

// collections maps a collection id to its environment. Decoration uses the
// same table.
var collections = map[string]Environment{
	"Stadium": EnvironmentStadium,
	"Canyon":  EnvironmentCanyon,
	"Valley":  EnvironmentValley,
	"Lagoon":  EnvironmentLagoon,
	"Storm":   EnvironmentStorm,
}

func environmentOf(collection string) Environment {
	if e, ok := collections[collection]; ok {
		return e
	}
	return EnvironmentUnknown
}

func (e Environment) String() string { return enumString(environmentNames, e) }

// Decoration is the decoration set, named like the environments.
type Decoration int

const (
	DecorationUnknown Decoration = unknown
	DecorationStadium Decoration = 0
	DecorationCanyon  Decoration = 1
	DecorationValley  Decoration = 2
	DecorationLagoon  Decoration = 3
	DecorationStorm   Decoration = 4
)

func decorationOf(collection string) Decoration {
	if e, ok := collections[collection]; ok {
		return Decoration(e)
	}
	return DecorationUnknown
}

func (d Decoration) String() string { return enumString(environmentNames, Environment(d)) }

// Mode is the map kind stored in the Common chunk.
type Mode int

const (
	ModeUnknown     Mode = unknown
	ModeEndMarker   Mode = 0
	ModeCampaignOld Mode = 1
	ModePuzzle      Mode = 2
	ModeRetro       Mode = 3
	ModeTimeAttack  Mode = 4
	ModeRounds      Mode = 5
	ModeInProgress  Mode = 6
	ModeCampaign    Mode = 7
	ModeMulti       Mode = 8
	ModeSolo        Mode = 9
	ModeSite        Mode = 10
	ModeSoloNadeo   Mode = 11
	ModeMultiNadeo  Mode = 12
)

// Kinds 1 and 7 both decode to Campaign; ModeCampaignOld is never produced.
var modeByKind = [...]Mode{
	0:  ModeEndMarker,
	1:  ModeCampaign,
	2:  ModePuzzle,
	3:  ModeRetro,
	4:  ModeTimeAttack,
	5:  ModeRounds,
	6:  ModeInProgress,
	7:  ModeCampaign,
	8:  ModeMulti,
	9:  ModeSolo,
	10: ModeSite,
	11: ModeSoloNadeo,
	12: ModeMultiNadeo,
}

func modeOf(kind uint8) Mode {
	if int(kind) < len(modeByKind) {
		return modeByKind[kind]
	}
	return ModeUnknown
}

var modeNames = map[Mode]string{
	ModeUnknown:     "Unknown",
	ModeEndMarker:   "EndMarker",
	ModeCampaignOld: "CampaignOld",
	ModePuzzle:      "Puzzle",
	ModeRetro:       "Retro",
	ModeTimeAttack:  "TimeAttack",
	ModeRounds:      "Rounds",
	ModeInProgress:  "InProgress",
	ModeCampaign:    "Campaign",
	ModeMulti:       "Multi",
	ModeSolo:        "Solo",
	ModeSite:        "Site",
	ModeSoloNadeo:   "SoloNadeo",
	ModeMultiNadeo:  "MultiNadeo",
}

func (m Mode) String() string { return enumString(modeNames, m) }

// Mood is the lighting of the decoration.
type Mood int

const (
	MoodUnknown Mood = unknown
	MoodDay     Mood = 0
	MoodSunset  Mood = 1
	MoodNight   Mood = 2
	MoodSunrise Mood = 3
)

// moodOrder is the match priority: "Sunrise" is checked before "Sunset".
var moodOrder = []struct {
	needle string
	mood   Mood
}{
	{"Day", MoodDay},
	{"Sunrise", MoodSunrise},
	{"Sunset", MoodSunset},
	{"Night", MoodNight},
}

// moodOf classifies a decoration id such as "48x48Day" by substring.
func moodOf(id string) Mood {
	for _, m := range moodOrder {
		if strings.Contains(id, m.needle) {
			return m.mood
		}
	}
	return MoodUnknown
}

var moodNames = map[Mood]string{
	MoodUnknown: "Unknown",
	MoodDay:     "Day",
	MoodSunset:  "Sunset",
	MoodNight:   "Night",
	MoodSunrise: "Sunrise",
}

func (m Mood) String() string { return enumString(moodNames, m) }

// MapType is the gameplay type stored in the TmDesc chunk.
type MapType int

const (
	MapTypeUnknown  MapType = unknown
	MapTypeRace     MapType = 0
	MapTypePlatform MapType = 1
	MapTypePuzzle   MapType = 2
	MapTypeCrazy    MapType = 3
	MapTypeShortcut MapType = 4
	MapTypeStunts   MapType = 5
	MapTypeScript   MapType = 6
)

var mapTypeNames = map[MapType]string{
	MapTypeUnknown:  "Unknown",
	MapTypeRace:     "Race",
	MapTypePlatform: "Platform",
	MapTypePuzzle:   "Puzzle",
	MapTypeCrazy:    "Crazy",
	MapTypeShortcut: "Shortcut",
	MapTypeStunts:   "Stunts",
	MapTypeScript:   "Script",
}

func mapTypeOf(v uint32) MapType {
	if v <= uint32(MapTypeScript) {
		return MapType(v)
	}
	return MapTypeUnknown
}

func (t MapType) String() string { return enumString(mapTypeNames, t) }

func enumString[E ~int](names map[E]string, v E) string {
	if s, ok := names[v]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", int(v))
}

// Enums marshal as their names in JSON, YAML and CBOR via TextMarshaler.

func (e Environment) MarshalText() ([]byte, error) { return []byte(e.String()), nil }
func (d Decoration) MarshalText() ([]byte, error)  { return []byte(d.String()), nil }
func (m Mode) MarshalText() ([]byte, error)        { return []byte(m.String()), nil }
func (m Mood) MarshalText() ([]byte, error)        { return []byte(m.String()), nil }
func (t MapType) MarshalText() ([]byte, error)     { return []byte(t.String()), nil }
