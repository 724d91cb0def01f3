package tone

// Global domain vocabulary. Role keyword lists, parameter synonym tables,
// and default plugin names are compile-time constants centralized here so
// that adding a role or a synonym is a one-line change, per the "Global
// tables" design note.

// roleKeywords maps a semantic role to its ordered keyword list. Order
// matters: keyword i contributes (10-i) to a plugin's score, so earlier
// keywords are stronger signals (e.g. "readelay" outranks the generic
// "delay" so a bundled ReaDelay instance wins over a third-party delay
// that merely has "delay" in its name).
var roleKeywords = map[string][]string{
	"amp":        {"neuraldsp", "archetype", "amp", "sim", "amplifier", "dist", "gain"},
	"eq":         {"reaeq", "proq", "eq", "equalizer"},
	"gate":       {"reagate", "gate", "noisegate", "noise"},
	"reverb":     {"reaverbate", "reaverb", "reverb", "room", "hall"},
	"delay":      {"readelay", "delay", "echo"},
	"overdrive":  {"overdrive", "od", "screamer", "drive"},
	"distortion": {"distortion", "dist", "fuzz"},
	"compressor": {"compressor", "comp"},
}

// roleKeywordsFor resolves the keyword list for an effect's canonical type,
// falling back to the normalized type itself as a single-keyword list when
// no dedicated entry exists.
func roleKeywordsFor(role string) []string {
	if kws, ok := roleKeywords[role]; ok {
		return kws
	}
	return []string{role}
}

// defaultPluginFor names the plugin to load when a role has no match in the
// snapshot and loading is permitted. Only roles with a well-known bundled
// default are listed; everything else yields a RoleMissWarning instead.
var defaultPluginFor = map[string]string{
	"eq":         "ReaEQ (Cockos)",
	"reverb":     "ReaVerbate (Cockos)",
	"delay":      "ReaDelay (Cockos)",
	"noise_gate": "ReaGate (Cockos)",
}

// paramSynonyms maps a canonical parameter key to its ordered synonym list.
// Synonym i contributes score (90-i) on exact match or (50-i) on substring
// containment, so earlier synonyms outrank later ones.
var paramSynonyms = map[string][]string{
	"gain":      {"gain", "drive", "input", "pregain", "preamp"},
	"drive":     {"drive", "gain", "input"},
	"bass":      {"bass", "low", "lf", "lows"},
	"low":       {"bass", "low", "lf", "lows"},
	"mid":       {"mid", "middle", "mids", "mf"},
	"middle":    {"mid", "middle", "mids", "mf"},
	"treble":    {"treble", "high", "hf", "highs", "presence"},
	"high":      {"treble", "high", "hf", "highs", "presence"},
	"presence":  {"presence", "pres", "bright"},
	"master":    {"master", "output", "level", "volume"},
	"output":    {"master", "output", "level", "volume"},
	"level":     {"master", "output", "level", "volume"},
	"volume":    {"master", "output", "level", "volume"},
	"threshold": {"threshold", "thresh"},
	"attack":    {"attack", "att"},
	"release":   {"release", "rel"},
	"mix":       {"mix", "wet", "drywet", "blend"},
	"time":      {"time", "ms", "sec", "seconds"},
	"feedback":  {"feedback", "fb"},
}

// synonymsFor resolves the synonym list for a canonical key, falling back
// to the key itself when no dedicated table entry exists.
func synonymsFor(keyNorm string) []string {
	if syn, ok := paramSynonyms[keyNorm]; ok {
		return syn
	}
	return []string{keyNorm}
}

// Canonical vocabularies, by group, used by the Tone Sanitizer.

// ampSynonymToCanonical canonicalizes amp knob keys. The amp group is
// non-strict: unknown keys are kept under their original name so the Param
// Matcher can still fuzzy-match them downstream.
var ampSynonymToCanonical = map[string]string{
	"gain": "gain", "drive": "gain", "input": "gain", "pregain": "gain", "preamp": "gain",
	"bass": "bass", "low": "bass", "lows": "bass",
	"mid": "mid", "middle": "mid", "mids": "mid",
	"treble": "treble", "treb": "treble", "high": "treble", "highs": "treble",
	"presence": "presence", "pres": "presence", "bright": "presence",
	"master": "master", "volume": "master", "level": "master", "output": "master",
}

var reverbSynonymToCanonical = map[string]string{
	"mix": "mix", "wet": "mix", "drywet": "mix", "blend": "mix",
	"roomsize": "room_size", "room_size": "room_size", "size": "room_size",
	"predelay": "predelay", "pre_delay": "predelay", "pre": "predelay",
	"decay": "decay", "time": "decay",
	"highcut": "high_cut", "high_cut": "high_cut", "hicut": "high_cut",
	"lowcut": "low_cut", "low_cut": "low_cut", "locut": "low_cut",
}

var delaySynonymToCanonical = map[string]string{
	"mix": "mix", "wet": "mix", "drywet": "mix", "blend": "mix",
	"time": "time", "ms": "time", "seconds": "time", "sec": "time",
	"feedback": "feedback", "fb": "feedback",
}

// effectTypeCanonical canonicalizes the free-form effect type name a tone
// engineer might produce into the fixed effect-type vocabulary.
var effectTypeCanonical = map[string]string{
	"gate": "noise_gate", "noisegate": "noise_gate", "noise_gate": "noise_gate",
	"od": "overdrive", "overdrive": "overdrive", "tubescreamer": "overdrive", "screamer": "overdrive",
	"dist": "distortion", "distortion": "distortion", "fuzz": "distortion",
	"comp": "compressor", "compressor": "compressor",
	"chorus": "chorus",
	"phaser": "phaser",
}

// effectParamSynonymToCanonical returns the strict per-effect-type
// parameter vocabulary for the given canonical effect type.
func effectParamSynonymToCanonical(effectType string) map[string]string {
	switch effectType {
	case "noise_gate":
		return map[string]string{
			"threshold": "threshold", "thresh": "threshold",
			"attack": "attack", "att": "attack",
			// many gate UIs label this "decay"; folded into release to
			// keep the canonical vocabulary small.
			"release": "release", "rel": "release", "decay": "release",
		}
	case "compressor":
		return map[string]string{
			"threshold": "threshold", "thresh": "threshold",
			"attack": "attack", "att": "attack",
			"release": "release", "rel": "release",
			"ratio": "ratio",
			"mix":   "mix", "wet": "mix", "drywet": "mix", "blend": "mix",
			"makeup": "makeup", "makeupgain": "makeup", "gain": "makeup", "output": "makeup", "level": "makeup",
		}
	case "overdrive":
		return map[string]string{
			"drive": "drive", "gain": "drive",
			"tone": "tone", "treble": "tone",
			"level": "level", "output": "level", "volume": "level",
		}
	case "distortion":
		return map[string]string{
			"drive": "drive", "gain": "drive",
			"tone":  "tone",
			"level": "level", "output": "level", "volume": "level",
			"low": "low", "lows": "low", "bass": "low",
			"high": "high", "highs": "high", "treble": "high",
		}
	case "chorus":
		return map[string]string{
			"rate":  "rate",
			"depth": "depth",
			"mix":   "mix", "wet": "mix", "drywet": "mix", "blend": "mix",
		}
	default:
		// No dedicated vocabulary (e.g. "phaser"): falls through to the
		// generic effect vocabulary in genericEffectParamCanonical.
		return nil
	}
}

// genericEffectParamCanonical is the vocabulary used for effect types with
// no dedicated table above (currently "phaser"), mirroring the fallback
// arm of the original canonicalizer rather than inventing a new one.
var genericEffectParamCanonical = map[string]string{
	"mix": "mix", "wet": "mix", "drywet": "mix", "blend": "mix",
	"time": "time", "ms": "time", "seconds": "time", "sec": "time",
	"feedback": "feedback", "fb": "feedback",
	"threshold": "threshold", "thresh": "threshold",
	"attack": "attack", "att": "attack",
	"release": "release", "rel": "release",
}
