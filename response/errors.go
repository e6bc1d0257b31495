package response

// UpstreamError is one error entry merged in from a subgraph
// response per SPEC_FULL §4.5.4.
type UpstreamError struct {
	Message    string
	Path       []any
	Extensions map[string]any
}

// MergeUpstreamError prepends localPath (the partition root's
// response path) to the upstream error's path and renames every
// upstream extension key under an "upstream_" prefix so it cannot
// collide with extensions the gateway itself attaches.
func MergeUpstreamError(localPath []any, message string, upstreamPath []any, upstreamExtensions map[string]any) UpstreamError {
	path := make([]any, 0, len(localPath)+len(upstreamPath))
	path = append(path, localPath...)
	path = append(path, upstreamPath...)

	var ext map[string]any
	if len(upstreamExtensions) > 0 {
		ext = make(map[string]any, len(upstreamExtensions))
		for k, v := range upstreamExtensions {
			ext["upstream_"+k] = v
		}
	}

	return UpstreamError{Message: message, Path: path, Extensions: ext}
}
