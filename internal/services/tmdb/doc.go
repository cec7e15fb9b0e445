// Package tmdb provides a minimal TMDB API client used to resolve
// canonical titles, years, and ids for movies and shows.
package tmdb
