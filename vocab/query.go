package vocab

// QueryLabels are words recognized as visual labels when a query is parsed
// without the chat service. Synonym and concept keys are recognized too.
var QueryLabels = []string{
	"beach", "sunset", "dog", "cat", "car", "mountain", "flower", "food",
	"tree", "city", "snow", "baby", "party", "water", "portrait", "cake",
	"fireworks", "swimming pool", "bicycle", "guitar", "soccer", "trail",
	"sky", "grass", "bird", "horse", "boat", "bridge", "building", "church",
	"museum", "castle", "garden", "park", "lake", "river", "forest", "desert",
	"island", "harbor", "street", "market", "restaurant", "pizza", "drink",
	"coffee", "wine", "concert", "stage", "wedding", "christmas tree",
	"balloon", "ice", "ski", "tennis", "basketball", "landmark", "monument",
	"ruins", "temple", "airport", "train", "plane", "hotel", "night",
}

// PhotoWords select photos when a query names its media type.
var PhotoWords = map[string]bool{
	"photo": true, "photos": true, "picture": true, "pictures": true,
	"pic": true, "pics": true, "image": true, "images": true,
	"selfie": true, "selfies": true, "snapshot": true, "snapshots": true,
}

// VideoWords select videos when a query names its media type.
var VideoWords = map[string]bool{
	"video": true, "videos": true, "clip": true, "clips": true,
	"movie": true, "movies": true, "footage": true, "recording": true,
	"recordings": true,
}

// NonPlaces follow "in", "at" or "from" in queries without naming a place.
var NonPlaces = map[string]bool{
	"home": true, "work": true, "school": true, "night": true, "morning": true,
	"afternoon": true, "evening": true, "noon": true, "midnight": true,
	"weekend": true, "christmas": true, "halloween": true, "easter": true,
	"thanksgiving": true, "bed": true, "town": true, "general": true,
	"all": true, "total": true, "color": true, "colour": true,
}
