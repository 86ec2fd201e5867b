package geocoding

// wellKnownLocations seeds the cache at startup so common landmark names
// resolve with zero provider traffic. Keys are lowercased.
var wellKnownLocations = map[string]Result{
	"yosemite national park":       {Lat: 37.8651, Lng: -119.5383, State: "California", Country: "United States", Confidence: 1},
	"grand canyon national park":   {Lat: 36.1069, Lng: -112.1129, State: "Arizona", Country: "United States", Confidence: 1},
	"yellowstone national park":    {Lat: 44.4280, Lng: -110.5885, State: "Wyoming", Country: "United States", Confidence: 1},
	"zion national park":           {Lat: 37.2982, Lng: -113.0263, State: "Utah", Country: "United States", Confidence: 1},
	"rocky mountain national park": {Lat: 40.3428, Lng: -105.6836, State: "Colorado", Country: "United States", Confidence: 1},
	"glacier national park":        {Lat: 48.7596, Lng: -113.7870, State: "Montana", Country: "United States", Confidence: 1},
	"mount rainier national park":  {Lat: 46.8523, Lng: -121.7603, State: "Washington", Country: "United States", Confidence: 1},
	"olympic national park":        {Lat: 47.8021, Lng: -123.6044, State: "Washington", Country: "United States", Confidence: 1},
	"denali national park":         {Lat: 63.1148, Lng: -151.1926, State: "Alaska", Country: "United States", Confidence: 1},
	"everglades national park":     {Lat: 25.2866, Lng: -80.8987, State: "Florida", Country: "United States", Confidence: 1},
	"half dome":                    {Lat: 37.7459, Lng: -119.5332, State: "California", Country: "United States", Confidence: 1},
	"angels landing":               {Lat: 37.2690, Lng: -112.9469, State: "Utah", Country: "United States", Confidence: 1},
	"mount whitney":                {Lat: 36.5785, Lng: -118.2923, State: "California", Country: "United States", Confidence: 1},
	"appalachian trail":            {Lat: 40.4106, Lng: -76.4345, Country: "United States", Confidence: 1},
	"pacific crest trail":          {Lat: 41.7100, Lng: -122.3817, Country: "United States", Confidence: 1},
}
