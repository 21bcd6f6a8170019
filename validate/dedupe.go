package validate

// dedupe removes duplicate issues in place, keeping the first occurrence
// (execution order) of each dedupe key: issues for the same check on the
// same focus node are de-duplicated by (check_id, focus_node, path,
// message); the key extends with profile_token when scope is
// DedupeScopeProfile.
func dedupe(result *ValidationResult, scope DedupeScope) {
	seen := make(map[string]bool, len(result.Issues))
	out := result.Issues[:0]
	for _, issue := range result.Issues {
		key := issue.dedupeKey(scope)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, issue)
	}
	result.Issues = out
}
