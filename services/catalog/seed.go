package catalog

import "cinesage/models"

// Entry is one immutable seed record in the local catalog.
type Entry struct {
	Title       string
	Genres      []string
	Description string
	Year        int
	ContentType string
}

// genreKeywords maps canonical genre tags to trigger substrings found in
// user prompts. Read-only after construction, shared across requests.
var genreKeywords = map[string][]string{
	"action":    {"action", "thriller", "adventure", "fight", "combat", "explosive", "intense", "superhero"},
	"comedy":    {"funny", "comedy", "humor", "laugh", "hilarious", "witty", "amusing", "sitcom"},
	"animated":  {"animated", "cartoon", "animation", "pixar", "disney", "anime"},
	"sci-fi":    {"sci-fi", "science", "space", "future", "robot", "ai", "technology"},
	"romance":   {"love", "romance", "romantic", "date", "relationship", "couple"},
	"horror":    {"horror", "scary", "frightening", "spooky", "terrifying", "creepy"},
	"drama":     {"drama", "emotional", "serious", "touching", "heartbreaking", "biography"},
	"family":    {"family", "kids", "children", "wholesome", "all ages"},
	"mystery":   {"mystery", "detective", "puzzle", "investigation", "crime"},
	"adventure": {"adventure", "journey", "exploration", "quest", "travel"},
	"musical":   {"musical", "music", "songs", "singing", "dance"},
	"anthology": {"anthology", "collection", "stories"},
}

// seedEntries is the in-memory catalog used when the AI tier is unavailable.
var seedEntries = []Entry{
	{Title: "Mad Max: Fury Road", Genres: []string{"action", "adventure"}, Year: 2015, ContentType: models.ContentTypeMovie,
		Description: "A relentless desert chase with stunning practical stunts and explosive set pieces"},
	{Title: "John Wick", Genres: []string{"action", "thriller"}, Year: 2014, ContentType: models.ContentTypeMovie,
		Description: "A retired hitman returns with intense, precisely choreographed combat"},
	{Title: "Top Gun: Maverick", Genres: []string{"action", "drama"}, Year: 2022, ContentType: models.ContentTypeMovie,
		Description: "Breathtaking aerial sequences with a surprising amount of heart"},
	{Title: "Everything Everywhere All at Once", Genres: []string{"action", "comedy", "sci-fi"}, Year: 2022, ContentType: models.ContentTypeMovie,
		Description: "An innovative multiverse adventure that is both hilarious and emotional"},
	{Title: "The Grand Budapest Hotel", Genres: []string{"comedy", "drama"}, Year: 2014, ContentType: models.ContentTypeMovie,
		Description: "A beautiful, meticulously framed caper about a legendary concierge"},
	{Title: "Paddington 2", Genres: []string{"comedy", "family"}, Year: 2017, ContentType: models.ContentTypeMovie,
		Description: "A wholesome, endlessly witty adventure for all ages"},
	{Title: "Ted Lasso", Genres: []string{"comedy", "drama"}, Year: 2020, ContentType: models.ContentTypeSeries,
		Description: "A feel-good sports comedy with real emotional depth and heart"},
	{Title: "Spider-Man: Into the Spider-Verse", Genres: []string{"animated", "action", "adventure"}, Year: 2018, ContentType: models.ContentTypeMovie,
		Description: "Revolutionary animation that reinvented the superhero film"},
	{Title: "Spirited Away", Genres: []string{"animated", "adventure", "family"}, Year: 2001, ContentType: models.ContentTypeMovie,
		Description: "A stunning hand-drawn journey through a supernatural bathhouse"},
	{Title: "Dune", Genres: []string{"sci-fi", "adventure"}, Year: 2021, ContentType: models.ContentTypeMovie,
		Description: "A stunning large-scale adaptation of the classic space epic"},
	{Title: "Blade Runner 2049", Genres: []string{"sci-fi", "mystery"}, Year: 2017, ContentType: models.ContentTypeMovie,
		Description: "A beautiful, meditative future-noir about memory and identity"},
	{Title: "Severance", Genres: []string{"sci-fi", "thriller", "mystery"}, Year: 2022, ContentType: models.ContentTypeSeries,
		Description: "An innovative workplace mystery about surgically divided lives"},
	{Title: "The Expanse", Genres: []string{"sci-fi", "drama"}, Year: 2015, ContentType: models.ContentTypeSeries,
		Description: "Grounded space politics and survival across a colonized solar system"},
	{Title: "Pride and Prejudice", Genres: []string{"romance", "drama"}, Year: 2005, ContentType: models.ContentTypeMovie,
		Description: "A beautiful adaptation of the classic courtship between Elizabeth and Darcy"},
	{Title: "About Time", Genres: []string{"romance", "comedy", "sci-fi"}, Year: 2013, ContentType: models.ContentTypeMovie,
		Description: "A heartwarming time-travel romance about ordinary days"},
	{Title: "Get Out", Genres: []string{"horror", "thriller"}, Year: 2017, ContentType: models.ContentTypeMovie,
		Description: "An innovative social horror film that stays unsettling on rewatch"},
	{Title: "The Haunting of Hill House", Genres: []string{"horror", "drama"}, Year: 2018, ContentType: models.ContentTypeSeries,
		Description: "A creepy family saga where grief is the real ghost, full of emotional weight"},
	{Title: "The Shawshank Redemption", Genres: []string{"drama"}, Year: 1994, ContentType: models.ContentTypeMovie,
		Description: "An epic drama about hope, friendship and perseverance in prison"},
	{Title: "Parasite", Genres: []string{"drama", "thriller"}, Year: 2019, ContentType: models.ContentTypeMovie,
		Description: "A razor-sharp class satire that shifts genres without warning"},
	{Title: "Succession", Genres: []string{"drama"}, Year: 2018, ContentType: models.ContentTypeSeries,
		Description: "A heartbreaking and hilarious power struggle inside a media dynasty"},
	{Title: "Knives Out", Genres: []string{"mystery", "comedy"}, Year: 2019, ContentType: models.ContentTypeMovie,
		Description: "A witty modern whodunit with a detective worthy of the classics"},
	{Title: "True Detective", Genres: []string{"mystery", "drama", "thriller"}, Year: 2014, ContentType: models.ContentTypeSeries,
		Description: "A brooding investigation told across intertwined timelines"},
	{Title: "Coco", Genres: []string{"animated", "family", "musical"}, Year: 2017, ContentType: models.ContentTypeMovie,
		Description: "A stunning celebration of family and music in the Land of the Dead, full of heart"},
	{Title: "Inception", Genres: []string{"sci-fi", "action", "thriller"}, Year: 2010, ContentType: models.ContentTypeMovie,
		Description: "An innovative heist thriller set within layered dreams"},
}

// popularTitles is the fixed subset served when no genre signal is found.
var popularTitles = []string{
	"The Shawshank Redemption",
	"Inception",
	"Spirited Away",
	"Parasite",
	"Everything Everywhere All at Once",
	"Ted Lasso",
}
