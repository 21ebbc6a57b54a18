package render

import (
	"encoding/binary"
	"fmt"

	"github.com/nao1215/tsukuyomi/internal/fractal"
	"github.com/nao1215/tsukuyomi/internal/model"
)

// Vocabulary for generated page text. Pages read like survey notes from a
// long-running Mandelbrot boundary exploration; every choice below is driven
// by the token digest so the same page always reads the same.
var (
	regions = []string{
		"seahorse valley",
		"elephant valley",
		"triple spiral basin",
		"scepter arm",
		"satellite bulb",
		"misiurewicz cluster",
		"antenna filament",
		"double hook inlet",
	}

	textures = []string{
		"self-similar",
		"dendritic",
		"filigreed",
		"spiraling",
		"embedded",
		"cusped",
		"tendril-dense",
		"period-doubled",
	}

	features = []string{
		"minibrot",
		"julia island",
		"escape channel",
		"cardioid echo",
		"orbit trap",
		"bond point",
		"cleft",
		"limb spiral",
	}

	findings = []string{
		"boundary detail persists at every magnification sampled",
		"the escape-time gradient tightens toward the filament core",
		"interior hues collapse once the period estimate stabilizes",
		"neighboring branches repeat the parent structure with a slow twist",
		"iteration counts cluster just under the bailout threshold",
		"the connectedness locus shows no gaps at this resolution",
	}
)

// pick selects a list entry from one byte of the digest. Different slots use
// different bytes so one page draws varied vocabulary.
func pick(digest [32]byte, slot int, list []string) string {
	return list[int(digest[slot%len(digest)])%len(list)]
}

// pageTitle derives the deterministic title for a page.
func pageTitle(token model.Token, zoom int) string {
	digest := fractal.Digest(string(token) + ":content")
	return fmt.Sprintf("%s %s at %dx", pick(digest, 0, textures), pick(digest, 1, regions), zoom)
}

// linkLabel derives the deterministic anchor text for a child link.
func linkLabel(token model.Token) string {
	digest := fractal.Digest(string(token) + ":content")
	return fmt.Sprintf("%s %s %s", pick(digest, 2, textures), pick(digest, 3, features), string(token[:8]))
}

// narrative derives the rich variant's survey paragraphs.
func narrative(token model.Token, coord model.Coordinate) []string {
	digest := fractal.Digest(string(token) + ":content")
	iterations := 100000 + binary.BigEndian.Uint32(digest[8:12])%900000
	period := 2 + int(digest[12])%62

	return []string{
		fmt.Sprintf("Survey of a %s %s near the %s, centered at re %.15f, im %.15f.",
			pick(digest, 4, textures), pick(digest, 5, features), pick(digest, 6, regions),
			coord.Real, coord.Imag),
		fmt.Sprintf("Escape-time pass completed after %d iterations with a detected period of %d; %s.",
			iterations, period, pick(digest, 7, findings)),
		fmt.Sprintf("Each branch below magnifies a %s sub-region of this frame. Deeper frames refine the same neighborhood.",
			pick(digest, 13, textures)),
	}
}

// computation derives the rich variant's fake run statistics.
func computation(token model.Token, coord model.Coordinate) []statRow {
	digest := fractal.Digest(string(token) + ":content")
	return []statRow{
		{Name: "magnification", Value: fmt.Sprintf("%dx", coord.Zoom)},
		{Name: "iteration limit", Value: fmt.Sprintf("%d", 100000+binary.BigEndian.Uint32(digest[8:12])%900000)},
		{Name: "escape radius", Value: fmt.Sprintf("%d.0", 2+int(digest[14])%6)},
		{Name: "samples per axis", Value: fmt.Sprintf("%d", 512+int(digest[15])%4*256)},
		{Name: "detected period", Value: fmt.Sprintf("%d", 2+int(digest[12])%62)},
	}
}
