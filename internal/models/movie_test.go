// Reeltrack - Shared Movie and TV Watchlist Tracking
// Copyright 2026 Bors K. (borskip)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/borskip/reeltrack

package models

import (
	"reflect"
	"testing"
	"time"
)

func TestReleased(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{"valid date", "2010-07-16", time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)},
		{"empty date", "", time.Time{}},
		{"malformed date", "July 2010", time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MovieRef{ReleaseDate: tt.date}
			if got := m.Released(); !got.Equal(tt.want) {
				t.Errorf("Released() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSharesGenre(t *testing.T) {
	tests := []struct {
		name        string
		a, b        []string
		wantShares  bool
		wantMatches int
	}{
		{"single match", []string{"Science Fiction", "Action"}, []string{"Science Fiction"}, true, 1},
		{"case insensitive", []string{"science fiction"}, []string{"Science Fiction"}, true, 1},
		{"multiple matches", []string{"Drama", "Thriller", "Crime"}, []string{"Thriller", "Drama"}, true, 2},
		{"no overlap", []string{"Comedy"}, []string{"Horror"}, false, 0},
		{"empty candidate", nil, []string{"Drama"}, false, 0},
		{"empty other", []string{"Drama"}, nil, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := MovieRef{Genres: tt.a}
			b := MovieRef{Genres: tt.b}
			shares, matches := a.SharesGenre(&b)
			if shares != tt.wantShares || matches != tt.wantMatches {
				t.Errorf("SharesGenre() = (%v, %d), want (%v, %d)",
					shares, matches, tt.wantShares, tt.wantMatches)
			}
		})
	}
}

func TestSharedActors(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want []string
	}{
		{
			"common cast in candidate order",
			[]string{"Leonardo DiCaprio", "Tom Hardy", "Elliot Page"},
			[]string{"Tom Hardy", "Leonardo DiCaprio"},
			[]string{"Leonardo DiCaprio", "Tom Hardy"},
		},
		{"case sensitive", []string{"tom hardy"}, []string{"Tom Hardy"}, nil},
		{"no overlap", []string{"Alice"}, []string{"Bob"}, nil},
		{"empty", nil, []string{"Bob"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := MovieRef{Actors: tt.a}
			b := MovieRef{Actors: tt.b}
			if got := a.SharedActors(&b); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SharedActors() = %v, want %v", got, tt.want)
			}
		})
	}
}
