package grouping_test

import (
	"testing"

	"organizer/internal/grouping"
	"organizer/internal/services/debrid"
)

const largeVideo = 2 * 1024 * 1024 * 1024

func TestBuildGroupsByTorrent(t *testing.T) {
	torrents := []debrid.Torrent{
		{ID: "t1", Filename: "Severance.S02.1080p.WEB-DL"},
		{ID: "t2", Filename: "Inception.2010.2160p"},
	}
	downloads := []debrid.Download{
		{TorrentID: "t1", Link: "l1", Filename: "Severance.S02E01.mkv", Filesize: largeVideo, Download: "https://direct/d/Severance.S02E01.mkv"},
		{TorrentID: "t1", Link: "l2", Filename: "Severance.S02E02.mkv", Filesize: largeVideo, Download: "https://direct/d/Severance.S02E02.mkv"},
		{TorrentID: "t2", Link: "l3", Filename: "Inception.2010.mkv", Filesize: largeVideo, Download: "https://direct/d/Inception.2010.mkv"},
	}

	groups := grouping.NewBuilder().Build(torrents, downloads, nil)

	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}
	severance := groups["Severance.S02.1080p.WEB-DL"]
	if severance == nil {
		t.Fatalf("missing severance group; have %v", groupNames(groups))
	}
	if len(severance.Files) != 2 {
		t.Errorf("severance files = %d, want 2", len(severance.Files))
	}
	if severance.Torrent.ID != "t1" {
		t.Errorf("group torrent = %q", severance.Torrent.ID)
	}
}

func TestBuildSkipsUnknownTorrentAndDuplicateLinks(t *testing.T) {
	torrents := []debrid.Torrent{{ID: "t1", Filename: "Pack"}}
	downloads := []debrid.Download{
		{TorrentID: "t1", Link: "l1", Filename: "a.mkv", Filesize: largeVideo},
		{TorrentID: "t1", Link: "l1", Filename: "a-again.mkv", Filesize: largeVideo},
		{TorrentID: "missing", Link: "l2", Filename: "b.mkv", Filesize: largeVideo},
		{TorrentID: "", Link: "l3", Filename: "c.mkv", Filesize: largeVideo},
	}

	groups := grouping.NewBuilder().Build(torrents, downloads, nil)

	group := groups["Pack"]
	if group == nil || len(group.Files) != 1 {
		t.Fatalf("groups = %v", groupNames(groups))
	}
	if group.Files[0].OriginalName != "a.mkv" {
		t.Errorf("kept file = %q", group.Files[0].OriginalName)
	}
}

func TestBuildHonorsExclusionSet(t *testing.T) {
	torrents := []debrid.Torrent{{ID: "t1", Filename: "Pack"}}
	downloads := []debrid.Download{
		{TorrentID: "t1", Link: "l1", Filename: "seen.mkv", Filesize: largeVideo},
		{TorrentID: "t1", Link: "l2", Filename: "new.mkv", Filesize: largeVideo},
	}

	groups := grouping.NewBuilder().Build(torrents, downloads, map[string]bool{"l1": true})

	group := groups["Pack"]
	if group == nil || len(group.Files) != 1 || group.Files[0].OriginalName != "new.mkv" {
		t.Fatalf("group = %+v", group)
	}
}

func TestBuildFiltersJunk(t *testing.T) {
	torrents := []debrid.Torrent{{ID: "t1", Filename: "Pack"}}
	downloads := []debrid.Download{
		{TorrentID: "t1", Link: "l1", Filename: "sample.mkv", Filesize: 20 * 1024 * 1024},
		{TorrentID: "t1", Link: "l2", Filename: "readme.txt", Filesize: 100},
		{TorrentID: "t1", Link: "l3", Filename: "movie.srt", Filesize: 40 * 1024},
		{TorrentID: "t1", Link: "l4", Filename: "movie.mkv", Filesize: largeVideo},
	}

	groups := grouping.NewBuilder().Build(torrents, downloads, nil)

	group := groups["Pack"]
	if group == nil {
		t.Fatal("group missing")
	}
	if len(group.Files) != 2 {
		t.Fatalf("files = %d, want subtitle and full-size video", len(group.Files))
	}
}

func TestBuildAcceptsVideoByMimeType(t *testing.T) {
	torrents := []debrid.Torrent{{ID: "t1", Filename: "Pack"}}
	downloads := []debrid.Download{
		{TorrentID: "t1", Link: "l1", Filename: "stream.bin", MimeType: "video/x-matroska", Filesize: largeVideo},
	}

	groups := grouping.NewBuilder().Build(torrents, downloads, nil)

	if group := groups["Pack"]; group == nil || len(group.Files) != 1 {
		t.Fatalf("groups = %v", groupNames(groups))
	}
}

func TestBuildNeverCreatesEmptyGroups(t *testing.T) {
	torrents := []debrid.Torrent{{ID: "t1", Filename: "Junk Pack"}}
	downloads := []debrid.Download{
		{TorrentID: "t1", Link: "l1", Filename: "ad.mkv", Filesize: 1024},
	}

	groups := grouping.NewBuilder().Build(torrents, downloads, nil)

	if len(groups) != 0 {
		t.Fatalf("groups = %v, want none", groupNames(groups))
	}
}

func TestBuildDerivesFilenameFromURL(t *testing.T) {
	torrents := []debrid.Torrent{{ID: "t1", Filename: "Pack"}}
	downloads := []debrid.Download{
		{TorrentID: "t1", Link: "l1", Download: "https://host/d/Some.Movie.2024.mkv?token=x", Filesize: largeVideo},
	}

	groups := grouping.NewBuilder().Build(torrents, downloads, nil)

	group := groups["Pack"]
	if group == nil || len(group.Files) != 1 {
		t.Fatalf("groups = %v", groupNames(groups))
	}
	if group.Files[0].OriginalName != "Some.Movie.2024.mkv" {
		t.Errorf("derived name = %q", group.Files[0].OriginalName)
	}
}

func TestBuildMinSizeOverride(t *testing.T) {
	torrents := []debrid.Torrent{{ID: "t1", Filename: "Pack"}}
	downloads := []debrid.Download{
		{TorrentID: "t1", Link: "l1", Filename: "short.mkv", Filesize: 50 * 1024 * 1024},
	}

	builder := grouping.NewBuilder(grouping.WithMinVideoSizeMB(10))
	groups := builder.Build(torrents, downloads, nil)

	if group := groups["Pack"]; group == nil || len(group.Files) != 1 {
		t.Fatalf("groups = %v", groupNames(groups))
	}
}

func groupNames(groups map[string]*grouping.Group) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	return names
}
