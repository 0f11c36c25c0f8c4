package charts

import (
	"fmt"
	"sort"
)

// StoryMeta is the narrative attached to a story chart.
type StoryMeta struct {
	Key       string `json:"key"`
	Title     string `json:"title"`
	Desc      string `json:"description"`
	Feature   string `json:"feature"`
	Trend     string `json:"trend"`
	KeyPeriod string `json:"key_period"`
	Meaning   string `json:"meaning"`
}

var stories = map[string]StoryMeta{
	"acoustic": {
		Title:     "THE GREAT ACOUSTIC DECLINE",
		Desc:      "How music shifted from acoustic to digital production over decades",
		Feature:   "acousticness",
		Trend:     "Acoustic instruments dominated early music production but steadily declined as technology enabled synthetic and electronic sounds. The 2000s saw a brief resurgence with indie rock, but overall trend remains downward.",
		KeyPeriod: "The steepest decline occurred between 1980s-2000s when electronic production became mainstream.",
		Meaning:   "This shift reflects technological advancement and changing consumer preferences. Digital production allows for greater control, precision, and creative possibilities that pure acoustic recording cannot match.",
	},
	"energy": {
		Title:     "RISING ENERGY LEVELS",
		Desc:      "Modern tracks are getting more intense and energetic",
		Feature:   "energy",
		Trend:     "Overall energy levels in popular music have increased significantly over the past 50 years. Louder mastering, faster drums, and more aggressive production have become the norm.",
		KeyPeriod: "The most dramatic increase happened between 1990s-2010s with EDM and dubstep influence.",
		Meaning:   "Higher energy correlates with increased stimulation and intensity in music, reflecting faster pace of modern life and audience expectations for more engaging, dynamic content.",
	},
	"dance": {
		Title:     "THE DANCE REVOLUTION",
		Desc:      "Danceability peaked in the 2010s with EDM and pop domination",
		Feature:   "danceability",
		Trend:     "Danceability metrics show a clear explosion in the 2000s-2010s as EDM, house, and dance-pop became globally dominant. Electronic beats and 4/4 time signatures became industry standard.",
		KeyPeriod: "The revolution accelerated between 2005-2015 as digital production and streaming enabled global distribution.",
		Meaning:   "Increased danceability means music became more rhythmically predictable and beat-driven. This accessibility made it easier for mass audiences to connect with music on the dance floor and in playlists.",
	},
	"valence": {
		Title:     "MOOD SWINGS IN MUSIC",
		Desc:      "The emotional tone of music has fluctuated dramatically",
		Feature:   "valence",
		Trend:     "Valence (musical positiveness/cheerfulness) shows cyclical patterns. The 1980s-90s saw upbeat pop, 2000s got darker with emo and alternative music, then recovered with upbeat electronic pop in 2010s.",
		KeyPeriod: "Major swing occurred around 2008-2010 when darker moods gave way to brighter electronic pop.",
		Meaning:   "Mood fluctuations in commercial music reflect broader cultural and economic cycles. Happier music tends to emerge during prosperous times, while melancholy dominates during economic uncertainty.",
	},
}

// LookupStory returns the narrative for a story key.
func LookupStory(key string) (StoryMeta, error) {
	st, ok := stories[key]
	if !ok {
		return StoryMeta{}, fmt.Errorf("unknown story %q (use %v)", key, StoryKeys())
	}
	st.Key = key
	return st, nil
}

// StoryKeys lists the available stories.
func StoryKeys() []string {
	keys := make([]string, 0, len(stories))
	for k := range stories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
