// internal/niche/defaults.go
package niche

// defaults is the compiled-in niche mapping. A JSON file referenced from
// config can extend or override any entry.
var defaults = map[string]Niche{
	"coffee_shop": {
		DisplayName:    "Coffee Shop",
		HashtagSeeds:   []string{"coffee", "coffeeshop", "barista", "latteart", "espresso"},
		TrendsKeywords: []string{"coffee", "latte", "cold brew", "matcha", "espresso"},
		Subreddits:     []string{"Coffee", "espresso", "barista"},
		ContentThemes:  []string{"behind the counter", "drink recipes", "latte art", "morning routines", "cafe ambience"},
		Weights:        DefaultWeights,
	},
	"bakery": {
		DisplayName:    "Bakery",
		HashtagSeeds:   []string{"baking", "sourdough", "pastry", "bakerylife", "breadtok"},
		TrendsKeywords: []string{"sourdough", "croissant", "baking", "pastry", "cake"},
		Subreddits:     []string{"Baking", "Sourdough", "Breadit"},
		ContentThemes:  []string{"baking process", "fresh from the oven", "decorating", "recipes", "early morning prep"},
		Weights:        DefaultWeights,
	},
	"restaurant": {
		DisplayName:    "Restaurant",
		HashtagSeeds:   []string{"foodie", "restaurant", "cheflife", "foodtok", "plating"},
		TrendsKeywords: []string{"restaurant", "dining", "chef", "tasting menu", "food trends"},
		Subreddits:     []string{"KitchenConfidential", "food", "Cooking"},
		ContentThemes:  []string{"kitchen behind the scenes", "signature dishes", "chef tips", "plating", "staff stories"},
		Weights:        DefaultWeights,
	},
	"food_truck": {
		DisplayName:    "Food Truck",
		HashtagSeeds:   []string{"foodtruck", "streetfood", "foodtrucklife", "eats", "localfood"},
		TrendsKeywords: []string{"food truck", "street food", "tacos", "burgers", "pop up"},
		Subreddits:     []string{"foodtrucks", "StreetEatsHub", "food"},
		ContentThemes:  []string{"location announcements", "cooking on the truck", "menu specials", "customer reactions", "setup routines"},
		Weights:        DefaultWeights,
	},
	"fitness_studio": {
		DisplayName:    "Fitness Studio",
		HashtagSeeds:   []string{"fitness", "gym", "workout", "fitnessmotivation", "training"},
		TrendsKeywords: []string{"workout", "gym", "fitness challenge", "pilates", "strength training"},
		Subreddits:     []string{"Fitness", "bodyweightfitness", "xxfitness"},
		ContentThemes:  []string{"workout demos", "member transformations", "trainer tips", "class energy", "form corrections"},
		Weights:        DefaultWeights,
	},
	"yoga_studio": {
		DisplayName:    "Yoga Studio",
		HashtagSeeds:   []string{"yoga", "yogapractice", "mindfulness", "yogaflow", "meditation"},
		TrendsKeywords: []string{"yoga", "meditation", "breathwork", "stretching", "wellness"},
		Subreddits:     []string{"yoga", "Meditation", "flexibility"},
		ContentThemes:  []string{"pose tutorials", "breathing exercises", "studio atmosphere", "student journeys", "mindfulness moments"},
		Weights:        DefaultWeights,
	},
	"hair_salon": {
		DisplayName:    "Hair Salon",
		HashtagSeeds:   []string{"hair", "hairstylist", "haircut", "hairtransformation", "balayage"},
		TrendsKeywords: []string{"haircut", "hair color", "balayage", "hair trends", "hairstyle"},
		Subreddits:     []string{"Hair", "FancyFollicles", "Hairstylist"},
		ContentThemes:  []string{"transformations", "color techniques", "styling tutorials", "client reveals", "product recommendations"},
		Weights:        DefaultWeights,
	},
	"nail_salon": {
		DisplayName:    "Nail Salon",
		HashtagSeeds:   []string{"nails", "nailart", "naildesign", "gelnails", "manicure"},
		TrendsKeywords: []string{"nail art", "gel nails", "nail design", "manicure", "nail trends"},
		Subreddits:     []string{"Nails", "NailArt", "RedditLaqueristas"},
		ContentThemes:  []string{"nail art process", "design close-ups", "seasonal sets", "technique tutorials", "client picks"},
		Weights:        DefaultWeights,
	},
	"barbershop": {
		DisplayName:    "Barbershop",
		HashtagSeeds:   []string{"barber", "barbershop", "fade", "barberlife", "haircut"},
		TrendsKeywords: []string{"fade haircut", "barber", "beard trim", "mens haircut", "lineup"},
		Subreddits:     []string{"Barber", "malehairadvice", "beards"},
		ContentThemes:  []string{"fade transformations", "beard work", "shop culture", "client chats", "technique breakdowns"},
		Weights:        DefaultWeights,
	},
	"beauty_salon": {
		DisplayName:    "Beauty Salon",
		HashtagSeeds:   []string{"beauty", "makeup", "skincare", "glam", "beautysalon"},
		TrendsKeywords: []string{"makeup trends", "skincare routine", "lashes", "brows", "facial"},
		Subreddits:     []string{"MakeupAddiction", "SkincareAddiction", "beauty"},
		ContentThemes:  []string{"before and after", "treatment explainers", "product favorites", "skin tips", "glam reveals"},
		Weights:        DefaultWeights,
	},
	"tattoo_studio": {
		DisplayName:    "Tattoo Studio",
		HashtagSeeds:   []string{"tattoo", "tattooartist", "ink", "tattoodesign", "tattooideas"},
		TrendsKeywords: []string{"tattoo ideas", "fine line tattoo", "tattoo design", "tattoo artist", "ink"},
		Subreddits:     []string{"tattoos", "tattoo", "TattooDesigns"},
		ContentThemes:  []string{"tattoo process", "design showcases", "healing tips", "artist spotlights", "client stories"},
		Weights:        DefaultWeights,
	},
	"boutique": {
		DisplayName:    "Clothing Boutique",
		HashtagSeeds:   []string{"fashion", "boutique", "ootd", "styling", "smallbusiness"},
		TrendsKeywords: []string{"outfit ideas", "fashion trends", "capsule wardrobe", "styling tips", "new arrivals"},
		Subreddits:     []string{"femalefashionadvice", "malefashionadvice", "fashion"},
		ContentThemes:  []string{"new arrivals", "outfit styling", "try-on hauls", "trend takes", "behind the racks"},
		Weights:        DefaultWeights,
	},
	"jewelry_store": {
		DisplayName:    "Jewelry Store",
		HashtagSeeds:   []string{"jewelry", "jewelrydesign", "goldjewelry", "rings", "handmadejewelry"},
		TrendsKeywords: []string{"jewelry trends", "engagement ring", "gold jewelry", "layered necklaces", "handmade jewelry"},
		Subreddits:     []string{"jewelry", "jewelrymaking", "EngagementRings"},
		ContentThemes:  []string{"craftsmanship close-ups", "styling stacks", "custom pieces", "care tips", "sparkle reveals"},
		Weights:        DefaultWeights,
	},
	"bookstore": {
		DisplayName:    "Bookstore",
		HashtagSeeds:   []string{"booktok", "books", "bookstore", "reading", "bookrecommendations"},
		TrendsKeywords: []string{"book recommendations", "booktok", "new releases", "reading list", "bookstore"},
		Subreddits:     []string{"books", "booksuggestions", "bookshelf"},
		ContentThemes:  []string{"staff picks", "new release unboxings", "shelf organization", "reader community", "cozy corners"},
		Weights:        DefaultWeights,
	},
	"plant_shop": {
		DisplayName:    "Plant Shop",
		HashtagSeeds:   []string{"plants", "planttok", "houseplants", "plantcare", "plantshop"},
		TrendsKeywords: []string{"houseplants", "plant care", "rare plants", "propagation", "indoor garden"},
		Subreddits:     []string{"houseplants", "plantclinic", "IndoorGarden"},
		ContentThemes:  []string{"plant care tips", "new stock", "propagation demos", "rescue stories", "shop tours"},
		Weights:        DefaultWeights,
	},
	"pet_grooming": {
		DisplayName:    "Pet Grooming",
		HashtagSeeds:   []string{"doggrooming", "petgrooming", "groomer", "dogsoftiktok", "pets"},
		TrendsKeywords: []string{"dog grooming", "pet grooming", "doodle haircut", "cat grooming", "grooming transformation"},
		Subreddits:     []string{"doggrooming", "dogs", "pets"},
		ContentThemes:  []string{"grooming transformations", "breed-specific cuts", "calm handling", "before and after", "fluffy reveals"},
		Weights:        DefaultWeights,
	},
	"pet_store": {
		DisplayName:    "Pet Store",
		HashtagSeeds:   []string{"pets", "petstore", "dogtreats", "petsupplies", "animals"},
		TrendsKeywords: []string{"pet supplies", "dog toys", "aquarium", "pet food", "new pet"},
		Subreddits:     []string{"pets", "dogs", "Aquariums"},
		ContentThemes:  []string{"new products", "animal features", "pet parent tips", "store visitors", "staff favorites"},
		Weights:        DefaultWeights,
	},
	"florist": {
		DisplayName:    "Florist",
		HashtagSeeds:   []string{"flowers", "florist", "floraldesign", "bouquet", "flowershop"},
		TrendsKeywords: []string{"flower arrangement", "wedding flowers", "bouquet", "seasonal flowers", "florist"},
		Subreddits:     []string{"flowers", "floristry", "gardening"},
		ContentThemes:  []string{"arrangement timelapses", "flower care", "wedding work", "seasonal stems", "market runs"},
		Weights:        DefaultWeights,
	},
	"photography_studio": {
		DisplayName:    "Photography Studio",
		HashtagSeeds:   []string{"photography", "photographer", "photoshoot", "portrait", "behindthescenes"},
		TrendsKeywords: []string{"photography tips", "portrait photography", "photoshoot ideas", "editing", "camera"},
		Subreddits:     []string{"photography", "portraits", "photocritique"},
		ContentThemes:  []string{"behind the scenes", "lighting setups", "editing breakdowns", "client sessions", "gear talk"},
		Weights:        DefaultWeights,
	},
	"dance_studio": {
		DisplayName:    "Dance Studio",
		HashtagSeeds:   []string{"dance", "dancechallenge", "choreography", "dancer", "dancestudio"},
		TrendsKeywords: []string{"dance challenge", "choreography", "dance class", "hip hop dance", "dance trends"},
		Subreddits:     []string{"Dance", "dancemoms", "hiphopheads"},
		ContentThemes:  []string{"class highlights", "choreography snippets", "student progress", "trend challenges", "recital prep"},
		Weights:        DefaultWeights,
	},
	"music_school": {
		DisplayName:    "Music School",
		HashtagSeeds:   []string{"music", "musiclessons", "guitar", "piano", "musician"},
		TrendsKeywords: []string{"music lessons", "learn guitar", "piano practice", "music theory", "singing"},
		Subreddits:     []string{"WeAreTheMusicMakers", "guitarlessons", "piano"},
		ContentThemes:  []string{"student performances", "practice tips", "instrument demos", "teacher features", "recital moments"},
		Weights:        DefaultWeights,
	},
	"art_gallery": {
		DisplayName:    "Art Gallery",
		HashtagSeeds:   []string{"art", "artgallery", "artist", "contemporaryart", "artcollector"},
		TrendsKeywords: []string{"art exhibition", "contemporary art", "local artist", "art collecting", "gallery opening"},
		Subreddits:     []string{"Art", "ContemporaryArt", "museum"},
		ContentThemes:  []string{"exhibition previews", "artist interviews", "installation process", "opening nights", "collection stories"},
		Weights:        DefaultWeights,
	},
	"brewery": {
		DisplayName:    "Craft Brewery",
		HashtagSeeds:   []string{"craftbeer", "brewery", "beertok", "brewing", "beer"},
		TrendsKeywords: []string{"craft beer", "brewery", "ipa", "beer release", "taproom"},
		Subreddits:     []string{"CraftBeer", "Homebrewing", "beer"},
		ContentThemes:  []string{"brew day", "new releases", "taproom events", "brewing science", "tasting notes"},
		Weights:        DefaultWeights,
	},
	"bike_shop": {
		DisplayName:    "Bike Shop",
		HashtagSeeds:   []string{"cycling", "bikeshop", "bikelife", "mtb", "roadbike"},
		TrendsKeywords: []string{"bike maintenance", "cycling", "mountain bike", "ebike", "bike repair"},
		Subreddits:     []string{"bicycling", "MTB", "ebikes"},
		ContentThemes:  []string{"repair walkthroughs", "new builds", "trail and route picks", "maintenance tips", "customer rides"},
		Weights:        DefaultWeights,
	},
}
