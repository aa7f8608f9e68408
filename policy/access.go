package policy

import (
	"github.com/s0up4200/catalogprobe/catalog"
)

// Result catalog tags as the service reports them
const (
	TagNugs     = "nugs"
	TagPlayDead = "playDead"
	TagShared   = "nugs,playDead"
)

// ValidateCatalogAccess reports whether every result tag is visible to a
// search over the given catalogs.
//
// The rule is a closed table keyed on the set of searched catalogs:
//
//	{nugs}           every tag is "nugs" or "nugs,playDead"
//	{playDead}       every tag is "playDead" or "nugs,playDead"
//	{nugs,playDead}  always true
//	anything else    false
func ValidateCatalogAccess(searched []catalog.CatalogID, resultTags []string) bool {
	set := make(map[catalog.CatalogID]struct{}, len(searched))
	for _, id := range searched {
		set[id] = struct{}{}
	}

	_, nugs := set[catalog.CatalogNugs]
	_, playDead := set[catalog.CatalogPlayDead]

	switch {
	case len(set) == 2 && nugs && playDead:
		return true
	case len(set) == 1 && nugs:
		return allTagsIn(resultTags, TagNugs, TagShared)
	case len(set) == 1 && playDead:
		return allTagsIn(resultTags, TagPlayDead, TagShared)
	default:
		return false
	}
}

func allTagsIn(tags []string, allowed ...string) bool {
	for _, tag := range tags {
		ok := false
		for _, a := range allowed {
			if tag == a {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// CatalogTags collects the "catalogIds" attribute of each item. Items without
// a string tag are skipped.
func CatalogTags(items []map[string]any) []string {
	tags := make([]string, 0, len(items))
	for _, item := range items {
		if tag, ok := item["catalogIds"].(string); ok {
			tags = append(tags, tag)
		}
	}
	return tags
}
