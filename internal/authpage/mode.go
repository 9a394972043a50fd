package authpage

import (
	"net/url"
)

// Mode selects the sign-in or sign-up tab
type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
)

// ModeParam is the query parameter that carries the mode
const ModeParam = "mode"

var modeNames = map[Mode]string{
	ModeSignIn: "signin",
	ModeSignUp: "signup",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return modeNames[ModeSignIn]
}

// Modes lists the tabs in display order
func Modes() []Mode {
	return []Mode{ModeSignIn, ModeSignUp}
}

// ParseMode never fails: "signup" selects sign-up, everything else
// (absent, unknown strings, non-strings) selects sign-in.
func ParseMode(v any) Mode {
	s, ok := v.(string)
	if !ok {
		return ModeSignIn
	}
	if s == modeNames[ModeSignUp] {
		return ModeSignUp
	}
	return ModeSignIn
}

// Search is the validated query of the auth page
type Search struct {
	Mode Mode
}

// ParseSearch validates raw query values
func ParseSearch(values url.Values) Search {
	if values == nil || !values.Has(ModeParam) {
		return Search{Mode: ModeSignIn}
	}
	return Search{Mode: ParseMode(values.Get(ModeParam))}
}

// Values encodes the search back into query values
func (s Search) Values() url.Values {
	return url.Values{ModeParam: {s.Mode.String()}}
}
