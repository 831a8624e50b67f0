package models

// Category is a named group of destinations with a display icon.
type Category struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

// Catalog is the ordered destination list and category table.
// This corresponds to ~/.popsearch/catalog.yaml.
type Catalog struct {
	Version      int           `yaml:"version"`
	Destinations []Destination `yaml:"destinations"`
	Categories   []Category    `yaml:"categories"`
}

// Icon returns the icon for a category name. Unknown categories get "?".
func (c *Catalog) Icon(name string) string {
	for _, cat := range c.Categories {
		if cat.Name == name && cat.Icon != "" {
			return cat.Icon
		}
	}
	if name == UnsortedCategory {
		return "●"
	}
	return "?"
}

// Find returns the destination with the given ID.
func (c *Catalog) Find(id string) (*Destination, bool) {
	for i := range c.Destinations {
		if c.Destinations[i].ID == id {
			return &c.Destinations[i], true
		}
	}
	return nil, false
}

// Remove deletes the destination with the given ID.
func (c *Catalog) Remove(id string) bool {
	for i := range c.Destinations {
		if c.Destinations[i].ID == id {
			c.Destinations = append(c.Destinations[:i], c.Destinations[i+1:]...)
			return true
		}
	}
	return false
}

// NewCatalog creates the default catalog. Destination IDs are left empty
// and assigned by the store on first load.
func NewCatalog() *Catalog {
	destinations := []Destination{
		{Name: "Google", Target: "https://www.google.com/search?q={query}", Category: "Search"},
		{Name: "Wikipedia", Target: "https://en.wikipedia.org/wiki/Special:Search?search={query}", Category: "Search"},
		{Name: "YouTube", Target: "https://www.youtube.com/results?search_query={query}", Category: "Search"},
		{Name: "DuckDuckGo", Target: "https://duckduckgo.com/?q={query}", Category: "Search"},
		{Name: "Bing", Target: "https://www.bing.com/search?q={query}", Category: "Search"},
		{Name: "Yahoo", Target: "https://search.yahoo.com/search?p={query}", Category: "Search"},
		{Name: "Baidu", Target: "https://www.baidu.com/s?wd={query}", Category: "Search"},
		{Name: "Yandex", Target: "https://yandex.com/search/?text={query}", Category: "Search"},
		{Name: "WolframAlpha", Target: "https://www.wolframalpha.com/input/?i={query}", Category: "Search"},
		{Name: "Ecosia", Target: "https://www.ecosia.org/search?q={query}", Category: "Search"},
		{Name: "Amazon", Target: "https://www.amazon.com/s?k={query}", Category: "Bookmarks"},
		{Name: "GitHub", Target: "https://github.com/search?q={query}", Category: "Bookmarks"},
		{Name: "Stack Overflow", Target: "https://stackoverflow.com/search?q={query}", Category: "Bookmarks"},
		{Name: "SQL Practice", Target: "https://www.sql-practice.com/", Category: "Bookmarks"},
		{Name: "MDN Web Docs", Target: "https://developer.mozilla.org/search?q={query}", Category: "Bookmarks"},
		{Name: "CSS-Tricks", Target: "https://css-tricks.com/?s={query}", Category: "Bookmarks"},
		{Name: "NPM", Target: "https://www.npmjs.com/search?q={query}", Category: "Bookmarks"},
		{Name: "Can I Use", Target: "https://caniuse.com/?search={query}", Category: "Bookmarks"},
		{Name: "Trello", Target: "https://trello.com/search?q={query}", Category: "Bookmarks"},
		{Name: "Notion", Target: "https://www.notion.so/search?q={query}", Category: "Bookmarks"},
		{Name: "Twitter", Target: "https://twitter.com/search?q={query}", Category: "Social"},
		{Name: "Reddit", Target: "https://www.reddit.com/search?q={query}", Category: "Social"},
		{Name: "Facebook", Target: "https://www.facebook.com/search/top/?q={query}", Category: "Social"},
		{Name: "Instagram", Target: "https://www.instagram.com/explore/tags/{query}/", Category: "Social"},
		{Name: "LinkedIn", Target: "https://www.linkedin.com/search/results/all/?keywords={query}", Category: "Social"},
		{Name: "Pinterest", Target: "https://www.pinterest.com/search/pins/?q={query}", Category: "Social"},
		{Name: "TikTok", Target: "https://www.tiktok.com/search?q={query}", Category: "Social"},
		{Name: "Tumblr", Target: "https://www.tumblr.com/search/{query}", Category: "Social"},
		{Name: "Quora", Target: "https://www.quora.com/search?q={query}", Category: "Social"},
		{Name: "Mastodon", Target: "https://mastodon.social/search?q={query}", Category: "Social"},
		{Name: "ChatGPT", Target: "https://chatgpt.com/?q={query}", Category: "AI"},
		{Name: "Claude", Target: "https://claude.ai/chat?q={query}", Category: "AI"},
		{Name: "Gemini", Target: "https://gemini.google.com/app", Category: "AI"},
		{Name: "Perplexity", Target: "https://www.perplexity.ai/search?q={query}", Category: "AI"},
		{Name: "Midjourney", Target: "https://www.midjourney.com/app/", Category: "AI"},
		{Name: "deepseek", Target: "https://chat.deepseek.com/", Category: "AI"},
		{Name: "Hugging Face", Target: "https://huggingface.co/models?search={query}", Category: "AI"},
		{Name: "Copilot", Target: "https://copilot.microsoft.com/", Category: "AI"},
		{Name: "DeepMind", Target: "https://www.deepmind.com/", Category: "AI"},
		{Name: "Anthropic", Target: "https://www.anthropic.com/", Category: "AI"},
	}
	for i := range destinations {
		destinations[i].Kind = KindURL
		destinations[i].Enabled = true
	}
	return &Catalog{
		Version:      1,
		Destinations: destinations,
		Categories: []Category{
			{Name: "Search", Icon: "⌕"},
			{Name: "Bookmarks", Icon: "★"},
			{Name: "Social", Icon: "☺"},
			{Name: "AI", Icon: "✦"},
		},
	}
}
