package snapshot

import (
	"fmt"
	"net/http"

	"github.com/suomisf/suomisf/pkg/testutils"
)

// Endpoint is one request whose response is pinned to a stored snapshot.
type Endpoint struct {
	Method string
	Path   string
	Body   string
	Name   string
}

func get(path, name string) Endpoint {
	return Endpoint{Method: http.MethodGet, Path: path, Name: name}
}

// DefaultEndpoints lists the read endpoints pinned against the fixture
// catalog. Entity paths use the ids the fixture was seeded with.
func DefaultEndpoints(f *testutils.Fixture) []Endpoint {
	return []Endpoint{
		get("/api/frontpagedata", "frontpagedata"),
		get("/api/genres", "genres"),
		get("/api/countries", "countries"),
		get("/api/roles/", "roles"),
		get("/api/bindings", "bindings"),
		get("/api/worktypes", "worktypes"),
		get("/api/shorttypes", "shorttypes"),
		get("/api/magazinetypes", "magazinetypes"),

		get("/api/latest/covers/5", "latest_covers_5"),
		get("/api/latest/works/5", "latest_works_5"),
		get("/api/latest/editions/5", "latest_editions_5"),
		get("/api/latest/people/5", "latest_people_5"),
		get("/api/latest/shorts/5", "latest_shorts_5"),

		get("/api/stats/genrecounts", "stats_genrecounts"),
		get("/api/stats/personcounts", "stats_personcounts"),
		get("/api/stats/storypersoncounts", "stats_storypersoncounts"),
		get("/api/stats/publishercounts", "stats_publishercounts"),
		get("/api/stats/worksbyyear", "stats_worksbyyear"),
		get("/api/stats/origworksbyyear", "stats_origworksbyyear"),
		get("/api/stats/storiesbyyear", "stats_storiesbyyear"),
		get("/api/stats/issuesperyear", "stats_issuesperyear"),
		get("/api/stats/nationalitycounts", "stats_nationalitycounts"),
		get("/api/stats/storynationalitycounts", "stats_storynationalitycounts"),
		get("/api/stats/misc", "stats_misc"),

		get("/api/magazines", "magazines"),
		get("/api/awards", "awards"),
		get("/api/tags", "tags"),
		get("/api/publishers", "publishers"),
		get("/api/bookseries", "bookseries"),
		get("/api/pubseries", "pubseries"),

		get(fmt.Sprintf("/api/works/%d", f.FoundationID), "work_foundation"),
		get(fmt.Sprintf("/api/works/%d", f.AnthologyID), "work_anthology"),
		get(fmt.Sprintf("/api/works/shorts/%d", f.AnthologyID), "work_anthology_shorts"),
		get(fmt.Sprintf("/api/editions/%d", f.FoundationEd1ID), "edition_foundation_1"),
		get(fmt.Sprintf("/api/editions/%d/shorts", f.AnthologyEdID), "edition_anthology_shorts"),
		get(fmt.Sprintf("/api/people/%d", f.AsimovID), "person_asimov"),
		get(fmt.Sprintf("/api/people/%d/shorts", f.AsimovID), "person_asimov_shorts"),
		get(fmt.Sprintf("/api/shorts/%d", f.NightfallID), "short_nightfall"),
		get(fmt.Sprintf("/api/issues/%d", f.IssueID), "issue_portti"),

		get("/api/filter/people/Asi", "filter_people_asi"),
		get("/api/filter/tags/rob", "filter_tags_rob"),
		get("/api/filter/publishers/Tam", "filter_publishers_tam"),
		get("/api/search/robot", "search_robot"),
	}
}
