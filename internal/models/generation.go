package models

// PlatformResult is one slot of a generation run: either Text or Err is set.
type PlatformResult struct {
	Platform Platform
	Text     string
	Err      error
}

func (r PlatformResult) OK() bool {
	return r.Err == nil
}

// GenerationResult keeps platform results in the order they were requested.
type GenerationResult struct {
	Entries []PlatformResult
}

func (r *GenerationResult) Get(p Platform) (PlatformResult, bool) {
	for _, e := range r.Entries {
		if e.Platform == p {
			return e, true
		}
	}
	return PlatformResult{}, false
}

func (r *GenerationResult) Platforms() []Platform {
	out := make([]Platform, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Platform
	}
	return out
}

// Succeeded returns the entries that produced text, in order.
func (r *GenerationResult) Succeeded() []PlatformResult {
	var out []PlatformResult
	for _, e := range r.Entries {
		if e.OK() {
			out = append(out, e)
		}
	}
	return out
}

// Failed returns the entries with a recorded failure, in order.
func (r *GenerationResult) Failed() []PlatformResult {
	var out []PlatformResult
	for _, e := range r.Entries {
		if !e.OK() {
			out = append(out, e)
		}
	}
	return out
}
