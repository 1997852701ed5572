package database

import (
	"context"
	"strings"
	"testing"
)

// seedFilterFixture populates a small catalog with taxonomy associations:
//
//	a.mp4  tags{action}            participants{alice}  languages{en}
//	b.mp4  tags{action, drama}     participants{bob}    languages{en}
//	c.mp4  tags{drama}             participants{}       languages{}
func seedFilterFixture(t *testing.T, db *Database) (videos map[string]Video, tags, participants, languages map[string]string) {
	t.Helper()
	ctx := context.Background()

	videos = map[string]Video{}
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		v := testVideo("/media", name)
		mustUpsert(t, db, &v)
		videos[name] = v
	}

	tags = map[string]string{}
	for _, name := range []string{"action", "drama"} {
		tag, err := db.CreateTag(ctx, name, "")
		if err != nil {
			t.Fatalf("CreateTag(%s) failed: %v", name, err)
		}
		tags[name] = tag.ID
	}

	participants = map[string]string{}
	for _, name := range []string{"alice", "bob"} {
		p, err := db.CreateParticipant(ctx, name)
		if err != nil {
			t.Fatalf("CreateParticipant(%s) failed: %v", name, err)
		}
		participants[name] = p.ID
	}

	languages = map[string]string{}
	lang, err := db.CreateLanguage(ctx, "en", "English")
	if err != nil {
		t.Fatalf("CreateLanguage failed: %v", err)
	}
	languages["en"] = lang.ID

	assoc := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("association failed: %v", err)
		}
	}
	assoc(db.SetVideoTags(ctx, videos["a.mp4"].ID, []string{tags["action"]}))
	assoc(db.SetVideoTags(ctx, videos["b.mp4"].ID, []string{tags["action"], tags["drama"]}))
	assoc(db.SetVideoTags(ctx, videos["c.mp4"].ID, []string{tags["drama"]}))
	assoc(db.SetVideoParticipants(ctx, videos["a.mp4"].ID, []string{participants["alice"]}))
	assoc(db.SetVideoParticipants(ctx, videos["b.mp4"].ID, []string{participants["bob"]}))
	assoc(db.SetVideoLanguages(ctx, videos["a.mp4"].ID, []string{languages["en"]}))
	assoc(db.SetVideoLanguages(ctx, videos["b.mp4"].ID, []string{languages["en"]}))

	return videos, tags, participants, languages
}

func listNames(t *testing.T, db *Database, filter *FilterOptions) []string {
	t.Helper()
	page, err := db.ListVideos(context.Background(), filter)
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	names := make([]string, 0, len(page.Videos))
	for _, v := range page.Videos {
		names = append(names, v.Filename)
	}
	return names
}

func TestListVideosNoFilter(t *testing.T) {
	db := setupTestDB(t)
	seedFilterFixture(t, db)

	page, err := db.ListVideos(context.Background(), &FilterOptions{})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if page.Total != 3 || len(page.Videos) != 3 {
		t.Errorf("total = %d, page = %d, want 3/3", page.Total, len(page.Videos))
	}
	if page.HasMore {
		t.Error("HasMore should be false when the page covers everything")
	}
}

func TestListVideosFacetOrWithinFacet(t *testing.T) {
	db := setupTestDB(t)
	_, tags, _, _ := seedFilterFixture(t, db)

	// ids within one facet combine with OR: action OR drama matches all three,
	// each exactly once despite b.mp4 matching both
	names := listNames(t, db, &FilterOptions{
		TagIDs: []string{tags["action"], tags["drama"]},
	})
	if len(names) != 3 {
		t.Errorf("action OR drama matched %v, want 3 distinct records", names)
	}
}

func TestListVideosFacetAndAcrossFacets(t *testing.T) {
	db := setupTestDB(t)
	_, tags, participants, languages := seedFilterFixture(t, db)

	// facets combine with AND: action AND bob AND en matches only b.mp4
	names := listNames(t, db, &FilterOptions{
		TagIDs:         []string{tags["action"]},
		ParticipantIDs: []string{participants["bob"]},
		LanguageIDs:    []string{languages["en"]},
	})
	if len(names) != 1 || names[0] != "b.mp4" {
		t.Errorf("conjunction matched %v, want [b.mp4]", names)
	}

	// action AND alice AND drama: nothing satisfies all three
	names = listNames(t, db, &FilterOptions{
		TagIDs:         []string{tags["drama"]},
		ParticipantIDs: []string{participants["alice"]},
	})
	if len(names) != 0 {
		t.Errorf("impossible conjunction matched %v, want none", names)
	}
}

func TestListVideosSearch(t *testing.T) {
	db := setupTestDB(t)
	seedFilterFixture(t, db)

	names := listNames(t, db, &FilterOptions{Search: "b.mp"})
	if len(names) != 1 || names[0] != "b.mp4" {
		t.Errorf("search matched %v, want [b.mp4]", names)
	}

	// search composes with facets
	page, err := db.ListVideos(context.Background(), &FilterOptions{
		FolderPath: "/media",
		Search:     "zzz",
	})
	if err != nil {
		t.Fatalf("ListVideos failed: %v", err)
	}
	if page.Total != 0 {
		t.Errorf("no-match search: total = %d, want 0", page.Total)
	}
}

func TestListVideosFolderScopeSegmentBoundary(t *testing.T) {
	db := setupTestDB(t)

	in := testVideo("/media/lib", "in.mp4")
	under := testVideo("/media/lib/sub", "under.mp4")
	sibling := testVideo("/media/lib2", "sibling.mp4")
	mustUpsert(t, db, &in)
	mustUpsert(t, db, &under)
	mustUpsert(t, db, &sibling)

	names := listNames(t, db, &FilterOptions{FolderPath: "/media/lib"})
	if len(names) != 2 {
		t.Errorf("folder scope matched %v, want [in.mp4 under.mp4]", names)
	}
	for _, n := range names {
		if n == "sibling.mp4" {
			t.Error("folder scope leaked into textual-prefix sibling /media/lib2")
		}
	}
}

func TestListVideosSorting(t *testing.T) {
	db := setupTestDB(t)

	small := testVideo("/media", "bbb.mp4")
	small.Size = 1
	big := testVideo("/media", "aaa.mp4")
	big.Size = 1000
	mustUpsert(t, db, &small)
	mustUpsert(t, db, &big)

	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		wantFirst string
	}{
		{"filename asc is the default", "", "", "aaa.mp4"},
		{"size ascending", "size", "asc", "bbb.mp4"},
		{"size descending", "size", "desc", "aaa.mp4"},
		{"unknown key falls back to filename", "bogus; DROP TABLE videos", "asc", "aaa.mp4"},
		{"unknown order falls back to asc", "filename", "sideways", "aaa.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names := listNames(t, db, &FilterOptions{SortBy: tt.sortBy, SortOrder: tt.sortOrder})
			if len(names) == 0 || names[0] != tt.wantFirst {
				t.Errorf("first = %v, want %s", names, tt.wantFirst)
			}
		})
	}
}

func TestListVideosPagination(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		v := testVideo("/media", string(rune('a'+i))+".mp4")
		mustUpsert(t, db, &v)
	}

	// Walk the full result set two records at a time
	var seen []string
	offset := 0
	for {
		page, err := db.ListVideos(ctx, &FilterOptions{Limit: 2, Offset: offset})
		if err != nil {
			t.Fatalf("ListVideos at offset %d failed: %v", offset, err)
		}
		for _, v := range page.Videos {
			seen = append(seen, v.Filename)
		}
		if page.Total != 5 {
			t.Errorf("total = %d, want 5", page.Total)
		}
		wantMore := offset+len(page.Videos) < 5
		if page.HasMore != wantMore {
			t.Errorf("offset %d: HasMore = %v, want %v", offset, page.HasMore, wantMore)
		}
		if !page.HasMore {
			break
		}
		offset += len(page.Videos)
	}

	if len(seen) != 5 {
		t.Errorf("pagination walk yielded %d records, want 5: %v", len(seen), seen)
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"zero limit gets default", 0, 0, 100, 0},
		{"negative limit gets default", -5, 0, 100, 0},
		{"oversized limit is capped", 10000, 0, 500, 0},
		{"negative offset clamped", 10, -3, 10, 0},
		{"sane values untouched", 50, 20, 50, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &FilterOptions{Limit: tt.limit, Offset: tt.offset}
			normalizePage(f)
			if f.Limit != tt.wantLimit || f.Offset != tt.wantOffset {
				t.Errorf("normalizePage = %d/%d, want %d/%d", f.Limit, f.Offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestCompileFilterParameterizesValues(t *testing.T) {
	// Filter values must travel as bound args, never inside the SQL text
	hostile := `x" OR "1"="1`
	plan := compileFilter(&FilterOptions{
		FolderPath: hostile,
		Search:     hostile,
		TagIDs:     []string{hostile},
	})

	sql := plan.fromClause() + plan.whereClause()
	if strings.Contains(sql, hostile) {
		t.Errorf("filter value leaked into SQL text: %s", sql)
	}

	// folder (2 args) + tag (1) + search (1)
	if len(plan.args) != 4 {
		t.Errorf("args = %d, want 4", len(plan.args))
	}
}
