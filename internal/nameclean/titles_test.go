package nameclean

import "testing"

func TestExtractShowNameKnownTitles(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Family.Guy.S22E01.1080p.WEB", "Family Guy"},
		{"[TorrentCouch.com].Black.Mirror.S04.Complete.1080p.HD.x264.[4.6GB]", "Black Mirror"},
		{"Game.of.Thrones.S01.Complete", "Game of Thrones"},
		{"game_of_thrones_s08e06", "Game of Thrones"},
		{"[site] KonoSuba S2 720p", "KonoSuba: God's Blessing on This Wonderful World!"},
		{"Gods Blessing on This Wonderful World", "KonoSuba: God's Blessing on This Wonderful World!"},
		{"American.Dad.S18E02", "American Dad!"},
	}
	for _, tc := range cases {
		if got := ExtractShowName(tc.in); got != tc.want {
			t.Fatalf("ExtractShowName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractShowNameGeneric(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"[TorrentSite.com].Severance.S02E03.1080p.WEB-DL", "Severance"},
		{"Dark.Matter.2024.S01.2160p", "Dark Matter"},
		{"Silo Season 2 Complete", "Silo"},
	}
	for _, tc := range cases {
		if got := ExtractShowName(tc.in); got != tc.want {
			t.Fatalf("ExtractShowName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractShowNameEmpty(t *testing.T) {
	if got := ExtractShowName("S01E01.1080p"); got != "" {
		t.Fatalf("expected empty show name, got %q", got)
	}
}

func TestExtractMovieName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Inception.2010.1080p.BluRay.x264", "Inception"},
		{"[rarbg].The.Matrix.1999.REMUX", "The Matrix"},
		{"Dune.Part.Two.2024.2160p.WEB-DL.HDR", "Dune Part Two"},
	}
	for _, tc := range cases {
		if got := ExtractMovieName(tc.in); got != tc.want {
			t.Fatalf("ExtractMovieName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
