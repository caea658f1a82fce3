package watcher

// Sample is one instant's classification of the focused window after
// redaction. Samples are values; two samples are the same activity when
// both app and title match.
type Sample struct {
	App   string
	Title string
}

// Window is a raw observation from the platform layer, before redaction.
type Window struct {
	App   string
	Title string
}

// Normalize turns a raw observation into a reportable sample. An empty app
// is permitted: the pipeline must be able to represent an unknown process.
func Normalize(app, rawTitle string, rules RuleSet) Sample {
	return Sample{
		App:   app,
		Title: rules.Redact(app, rawTitle),
	}
}
