// Package knowledge holds the static coconut-farming knowledge base that
// grounds generated answers. There is exactly one copy of the table; both the
// single-query and multi-intent paths read it.
package knowledge

import (
	"strings"

	"github.com/anoopvm/coconut-advisor-go/internal/nlu"
)

// Fact is one named entry inside a topic section.
type Fact struct {
	Name string
	Text string
}

// Topic groups the facts for one intent together with a display title used
// for labeled multi-intent sections.
type Topic struct {
	Title string
	Facts []Fact
}

// base maps each topic intent to its knowledge section. Facts are an ordered
// slice, not a map, so fallback concatenation has a stable table order.
var base = map[nlu.Intent]Topic{
	nlu.IntentCoconutGeneral: {
		Title: "Coconut Cultivation",
		Facts: []Fact{
			{"climate", "Coconut palms grow best in humid tropical climates with temperatures between 20 and 32 degrees Celsius and well-distributed annual rainfall of 1000 to 2250 mm."},
			{"spacing", "Plant seedlings at 7.5 x 7.5 metre spacing, about 175 palms per hectare, in pits of 1 x 1 x 1 metre filled with topsoil and compost."},
			{"season", "The best planting season is at the onset of the monsoon so young palms establish before the dry months."},
			{"seedlings", "Select 9 to 12 month old seedlings with at least six leaves and a stout collar from a certified nursery."},
		},
	},
	nlu.IntentVarieties: {
		Title: "Coconut Varieties",
		Facts: []Fact{
			{"tall", "Tall varieties like West Coast Tall and East Coast Tall are hardy, live 60 to 80 years and start bearing in 6 to 8 years."},
			{"dwarf", "Dwarf varieties such as Chowghat Orange Dwarf and Malayan Yellow Dwarf start bearing in 3 to 4 years and are preferred for tender coconut water."},
			{"hybrid", "Hybrids like Kerasankara (WCT x COD) and Chandrasankara combine early bearing with higher copra yield and respond well to good management."},
			{"choice", "Choose tall varieties for rainfed holdings and hybrids or dwarfs where irrigation and regular care are assured."},
		},
	},
	nlu.IntentFertilizers: {
		Title: "Fertilizers & Nutrition",
		Facts: []Fact{
			{"schedule", "Apply fertilizer to adult palms in two splits, one third at the start of the monsoon and two thirds at its close."},
			{"dose", "A bearing palm needs about 500 g nitrogen, 320 g phosphorus and 1200 g potash per year, commonly given as urea, rock phosphate and muriate of potash."},
			{"organic", "Add 25 to 50 kg of farmyard manure or compost per palm each year in a circular basin of 1.8 metre radius."},
			{"green_manure", "Growing and ploughing in green manure crops like sunn hemp in the basin improves soil fertility and moisture retention."},
		},
	},
	nlu.IntentIrrigation: {
		Title: "Irrigation & Water Management",
		Facts: []Fact{
			{"need", "An adult palm needs 600 to 800 litres of water every 4 to 7 days in the dry season, depending on soil type."},
			{"drip", "Drip irrigation at 66 litres per palm per day saves water and gives steady yields; place four drippers in the basin."},
			{"mulching", "Mulch basins with coconut husks or leaves before the dry season to conserve moisture and suppress weeds."},
			{"drainage", "In heavy soils provide drainage channels, since waterlogged basins cause root rot and button shedding."},
		},
	},
	nlu.IntentPests: {
		Title: "Pest Management",
		Facts: []Fact{
			{"rhinoceros_beetle", "Rhinoceros beetles bore into the crown and cut unopened fronds; hook out the beetles and fill leaf axils with a mixture of sand and neem cake."},
			{"red_palm_weevil", "Red palm weevil grubs tunnel inside the trunk; avoid injuring the stem and destroy infested palms promptly to stop the spread."},
			{"mite", "Eriophyid mites scar tender nuts and reduce their size; spray neem oil garlic emulsion on buttons at 45 day intervals."},
			{"rodent", "Rodents damage tender nuts in the crown; band the trunk with a 40 cm metal sheet to stop them climbing."},
		},
	},
	nlu.IntentDiseases: {
		Title: "Disease Management",
		Facts: []Fact{
			{"yellowing", "Yellowing of leaves can indicate root wilt disease, nutrient deficiency or waterlogging; check the youngest leaves and soil condition first."},
			{"bud_rot", "Bud rot kills the central spindle in rainy weather; remove infected tissue early and protect the crown with Bordeaux paste."},
			{"stem_bleeding", "Stem bleeding shows as dark oozing patches on the trunk; chisel out affected tissue and dress the wound with coal tar."},
			{"leaf_rot", "Leaf rot often accompanies root wilt; cut away rotten portions of the spindle and spray the crown after clearing debris."},
		},
	},
	nlu.IntentHarvesting: {
		Title: "Harvesting",
		Facts: []Fact{
			{"maturity", "Nuts are fully mature 11 to 12 months after the inflorescence opens; mature bunches turn brown and sound hollow when tapped."},
			{"tender", "For tender coconut water, harvest at 7 to 8 months when the water is sweetest."},
			{"frequency", "A well-managed palm gives a harvestable bunch roughly every 45 days, about 8 bunches per year."},
			{"copra", "For copra and oil, harvest only fully mature nuts and dry them to below 6 percent moisture before storage."},
		},
	},
	nlu.IntentIntercropping: {
		Title: "Intercropping",
		Facts: []Fact{
			{"crops", "Banana, pineapple, elephant foot yam, ginger and turmeric grow well between young palms during the first 6 to 8 years."},
			{"mature_garden", "In gardens older than 20 years, shade-tolerant crops like pepper, nutmeg and cocoa can be grown as a mixed farming system."},
			{"benefit", "Intercropping raises total income per hectare and the extra manuring and irrigation also benefit the palms."},
			{"caution", "Keep intercrops at least 2 metres away from the palm basin so they do not compete for feeder roots."},
		},
	},
}

// Lookup returns the knowledge section for intent.
func Lookup(intent nlu.Intent) (Topic, bool) {
	t, ok := base[intent]
	return t, ok
}

// Title returns the display title for intent, or the raw intent string when
// it has no section.
func Title(intent nlu.Intent) string {
	if t, ok := base[intent]; ok {
		return t.Title
	}
	return intent.String()
}

// FallbackText concatenates every fact of the intent's section in table order
// with single spaces. It is the degraded answer used when generation fails or
// is rejected by validation.
func FallbackText(intent nlu.Intent) string {
	t, ok := base[intent]
	if !ok {
		return ""
	}
	parts := make([]string, 0, len(t.Facts))
	for _, f := range t.Facts {
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, " ")
}

// SectionText renders the intent's section as "name: text" lines for prompt
// embedding.
func SectionText(intent nlu.Intent) string {
	t, ok := base[intent]
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, f := range t.Facts {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Text)
		b.WriteString("\n")
	}
	return b.String()
}
