package region

// Built-in Indonesian province table. Order matters: the first entry with a
// matching pattern wins.
var defaultEntries = []Entry{ //nolint:gochecknoglobals // static configuration data
	{Name: "jawa barat", Patterns: []string{"jawa barat", "jabar", "west java", "bandung", "bogor", "depok", "bekasi", "cimahi", "sukabumi", "cirebon", "tasikmalaya", "garut"}},
	{Name: "jawa tengah", Patterns: []string{"jawa tengah", "jateng", "central java", "semarang", "solo", "surakarta", "magelang", "salatiga", "pekalongan", "tegal"}},
	{Name: "jawa timur", Patterns: []string{"jawa timur", "jatim", "east java", "surabaya", "malang", "kediri", "blitar", "madiun", "mojokerto", "pasuruan", "probolinggo"}},
	{Name: "dki jakarta", Patterns: []string{"jakarta", "dki jakarta", "jakarta pusat", "jakarta utara", "jakarta selatan", "jakarta timur", "jakarta barat", "kepulauan seribu"}},
	{Name: "banten", Patterns: []string{"banten", "tangerang", "serang", "cilegon", "lebak", "pandeglang", "tangerang selatan"}},
	{Name: "di yogyakarta", Patterns: []string{"yogyakarta", "jogja", "yogya", "diy", "sleman", "bantul", "kulonprogo", "gunungkidul"}},
	{Name: "bali", Patterns: []string{"bali", "denpasar", "ubud", "kuta", "sanur", "badung", "gianyar", "tabanan", "klungkung", "bangli"}},
	{Name: "sumatera utara", Patterns: []string{"sumatera utara", "sumut", "medan", "north sumatra", "pematangsiantar", "binjai", "tebing tinggi", "tanjungbalai"}},
	{Name: "sumatera barat", Patterns: []string{"sumatera barat", "sumbar", "padang", "west sumatra", "bukittinggi", "payakumbuh", "padangpanjang"}},
	{Name: "sumatera selatan", Patterns: []string{"sumatera selatan", "sumsel", "palembang", "south sumatra", "lubuklinggau", "pagar alam", "prabumulih"}},
	{Name: "lampung", Patterns: []string{"lampung", "bandar lampung", "metro"}},
	{Name: "riau", Patterns: []string{"riau", "pekanbaru", "dumai"}},
	{Name: "kepulauan riau", Patterns: []string{"kepulauan riau", "kepri", "batam", "tanjungpinang"}},
	{Name: "jambi", Patterns: []string{"jambi", "sungai penuh"}},
	{Name: "bengkulu", Patterns: []string{"bengkulu"}},
	{Name: "aceh", Patterns: []string{"aceh", "banda aceh", "langsa", "lhokseumawe", "sabang"}},
	{Name: "kalimantan barat", Patterns: []string{"kalimantan barat", "kalbar", "pontianak", "singkawang"}},
	{Name: "kalimantan tengah", Patterns: []string{"kalimantan tengah", "kalteng", "palangkaraya"}},
	{Name: "kalimantan selatan", Patterns: []string{"kalimantan selatan", "kalsel", "banjarmasin", "banjarbaru"}},
	{Name: "kalimantan timur", Patterns: []string{"kalimantan timur", "kaltim", "samarinda", "balikpapan", "bontang"}},
	{Name: "kalimantan utara", Patterns: []string{"kalimantan utara", "kalut", "tanjung selor"}},
	{Name: "sulawesi selatan", Patterns: []string{"sulawesi selatan", "sulsel", "makassar", "parepare", "palopo"}},
	{Name: "sulawesi utara", Patterns: []string{"sulawesi utara", "sulut", "manado", "bitung", "tomohon", "kotamobagu"}},
	{Name: "sulawesi tengah", Patterns: []string{"sulawesi tengah", "sulteng", "palu"}},
	{Name: "sulawesi tenggara", Patterns: []string{"sulawesi tenggara", "sultra", "kendari", "bau-bau"}},
	{Name: "sulawesi barat", Patterns: []string{"sulawesi barat", "sulbar", "mamuju"}},
	{Name: "gorontalo", Patterns: []string{"gorontalo"}},
	{Name: "papua", Patterns: []string{"papua", "jayapura"}},
	{Name: "papua barat", Patterns: []string{"papua barat", "manokwari", "sorong"}},
	{Name: "papua barat daya", Patterns: []string{"papua barat daya"}},
	{Name: "papua selatan", Patterns: []string{"papua selatan"}},
	{Name: "papua tengah", Patterns: []string{"papua tengah"}},
	{Name: "papua pegunungan", Patterns: []string{"papua pegunungan"}},
	{Name: "nusa tenggara barat", Patterns: []string{"nusa tenggara barat", "ntb", "mataram", "bima", "lombok"}},
	{Name: "nusa tenggara timur", Patterns: []string{"nusa tenggara timur", "ntt", "kupang", "flores", "ende"}},
	{Name: "maluku", Patterns: []string{"maluku", "ambon", "tual"}},
	{Name: "maluku utara", Patterns: []string{"maluku utara", "ternate", "tidore"}},
}

// Abbreviations and alternate spellings mapped to canonical names.
var defaultAliases = map[string]string{ //nolint:gochecknoglobals // static configuration data
	"jabar":   "jawa barat",
	"jateng":  "jawa tengah",
	"jatim":   "jawa timur",
	"jakarta": "dki jakarta",
	"jogja":   "di yogyakarta",
	"yogya":   "di yogyakarta",
	"diy":     "di yogyakarta",
	"sumut":   "sumatera utara",
	"sumbar":  "sumatera barat",
	"sumsel":  "sumatera selatan",
	"kepri":   "kepulauan riau",
	"kalbar":  "kalimantan barat",
	"kalteng": "kalimantan tengah",
	"kalsel":  "kalimantan selatan",
	"kaltim":  "kalimantan timur",
	"kalut":   "kalimantan utara",
	"sulsel":  "sulawesi selatan",
	"sulut":   "sulawesi utara",
	"sulteng": "sulawesi tengah",
	"sultra":  "sulawesi tenggara",
	"sulbar":  "sulawesi barat",
	"ntb":     "nusa tenggara barat",
	"ntt":     "nusa tenggara timur",
}
