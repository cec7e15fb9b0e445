package organizer

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"organizer/internal/classification"
	"organizer/internal/logging"
	"organizer/internal/nameclean"
	"organizer/internal/services/tmdb"
)

var (
	separatorCollapsePattern = regexp.MustCompile(`[.\-_\s]+`)
	looseCodePattern         = regexp.MustCompile(`(?i)([A-Z0-9]{2,6})[\s\-_]*(\d{3,5})`)
)

// OrganizeJAV copies a JAV folder's references into a code-named
// library folder. Every reference collapses onto a single <code>.strm
// target, deduplicating multi-part uploads of the same scene.
func (o *Organizer) OrganizeJAV(ctx context.Context, folderName, srcDir string) Result {
	var result Result
	codeName := javFolderName(folderName)
	destFolder := filepath.Join(o.destDirs[string(classification.CategoryJAV)], codeName)

	files, err := referenceFiles(srcDir)
	if err != nil {
		o.logger.Error("list source folder failed",
			logging.String("folder", folderName),
			logging.Error(err))
		result.Failed++
		return result
	}
	for _, file := range files {
		src := filepath.Join(srcDir, file)
		dst := filepath.Join(destFolder, codeName+referenceExtension)
		result.record(o.mat.CopyReference(ctx, src, dst))
	}
	if result.Copied > 0 || result.Skipped > 0 {
		o.rememberDest(ctx, folderName, destFolder)
	}
	return result
}

// javFolderName canonicalizes a JAV folder to its code. Names the
// detector cannot resolve fall back to a loose prefix-number match, and
// finally to the separator-collapsed name itself.
func javFolderName(folderName string) string {
	if code := classification.ExtractCode(folderName); code != "" {
		return code
	}
	collapsed := strings.Trim(separatorCollapsePattern.ReplaceAllString(folderName, "-"), "-")
	if m := looseCodePattern.FindStringSubmatch(collapsed); m != nil {
		return strings.ToUpper(m[1]) + "-" + m[2]
	}
	return collapsed
}

// OrganizeShow copies every source folder of a show into one canonical
// show tree, resolving the title against metadata and splitting files
// into season folders.
func (o *Organizer) OrganizeShow(ctx context.Context, showName string, folders []string, sourceRoot string) Result {
	var result Result

	folderTitle := nameclean.CleanPathComponent(showName)
	showTitle := folderTitle
	if o.searcher != nil {
		match, err := tmdb.FindShow(ctx, o.searcher, showName)
		if err != nil {
			o.logger.Warn("show metadata lookup failed",
				logging.String("show", showName),
				logging.Error(err))
		} else if match != nil {
			folderTitle = nameclean.CleanPathComponent(
				fmt.Sprintf("%s (%s) {tmdb-%d}", match.Title, match.Year, match.ID))
			showTitle = nameclean.CleanPathComponent(match.Title)
		}
	}
	showDest := filepath.Join(o.destDirs[string(classification.CategoryShows)], folderTitle)

	for _, folderName := range folders {
		srcDir := filepath.Join(sourceRoot, folderName)
		folderResult := o.organizeShowFolder(ctx, folderName, srcDir, showDest, showTitle)
		if folderResult.Copied > 0 || folderResult.Skipped > 0 {
			o.rememberDest(ctx, folderName, showDest)
		}
		result.add(folderResult)
	}
	return result
}

func (o *Organizer) organizeShowFolder(ctx context.Context, folderName, srcDir, showDest, showTitle string) Result {
	var result Result
	folderEpisode := nameclean.ExtractEpisode(folderName)

	files, err := referenceFiles(srcDir)
	if err != nil {
		o.logger.Error("list source folder failed",
			logging.String("folder", folderName),
			logging.Error(err))
		result.Failed++
		return result
	}
	for _, file := range files {
		episode := folderEpisode
		// A per-file marker wins over the folder's numbering so season
		// packs land as individual episodes.
		if fileEpisode := nameclean.ExtractEpisode(file); fileEpisode.Kind == nameclean.EpisodeExplicit {
			episode = fileEpisode
		}
		destDir := showDest
		if season := episode.SeasonFolder(); season != "" {
			destDir = filepath.Join(showDest, season)
		}
		filename := nameclean.CleanPathComponent(showTitle+" "+episode.Label()) + referenceExtension
		result.record(o.mat.CopyReference(ctx, filepath.Join(srcDir, file), filepath.Join(destDir, filename)))
	}
	return result
}

// OrganizeMovie copies a movie folder's references into a title-year
// library folder resolved against metadata.
func (o *Organizer) OrganizeMovie(ctx context.Context, folderName, srcDir string) Result {
	var result Result

	movieName := nameclean.ExtractMovieName(folderName)
	if movieName == "" {
		movieName = nameclean.CleanPathComponent(folderName)
	}
	folderTitle := nameclean.CleanPathComponent(movieName)
	filename := folderTitle
	if o.searcher != nil {
		match, err := tmdb.FindMovie(ctx, o.searcher, movieName)
		if err != nil {
			o.logger.Warn("movie metadata lookup failed",
				logging.String("movie", movieName),
				logging.Error(err))
		} else if match != nil {
			folderTitle = nameclean.CleanPathComponent(
				fmt.Sprintf("%s (%s) {tmdb-%d}", match.Title, match.Year, match.ID))
			filename = nameclean.CleanPathComponent(fmt.Sprintf("%s (%s)", match.Title, match.Year))
		}
	}
	destFolder := filepath.Join(o.destDirs[string(classification.CategoryMovie)], folderTitle)

	files, err := referenceFiles(srcDir)
	if err != nil {
		o.logger.Error("list source folder failed",
			logging.String("folder", folderName),
			logging.Error(err))
		result.Failed++
		return result
	}
	for _, file := range files {
		src := filepath.Join(srcDir, file)
		dst := filepath.Join(destFolder, filename+referenceExtension)
		result.record(o.mat.CopyReference(ctx, src, dst))
	}
	if result.Copied > 0 || result.Skipped > 0 {
		o.rememberDest(ctx, folderName, destFolder)
	}
	return result
}
