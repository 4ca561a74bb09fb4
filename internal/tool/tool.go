package tool

import "fmt"

// ID identifies one of the toolbox capabilities
type ID string

const (
	Chat       ID = "chat"
	ImageGen   ID = "imageGen"
	ImageEdit  ID = "imageEdit"
	WebSearch  ID = "webSearch"
	RecipeGen  ID = "recipeGen"
	CodeGen    ID = "codeGen"
	StoryGen   ID = "storyGen"
	Summarizer ID = "summarizer"
	Admin      ID = "admin"
)

// All lists every tool in sidebar order
var All = []ID{
	Chat,
	ImageGen,
	ImageEdit,
	WebSearch,
	RecipeGen,
	CodeGen,
	StoryGen,
	Summarizer,
	Admin,
}

var icons = map[ID]string{
	Chat:       "chat",
	ImageGen:   "image",
	ImageEdit:  "edit",
	WebSearch:  "search",
	RecipeGen:  "book",
	CodeGen:    "code",
	StoryGen:   "story",
	Summarizer: "summarize",
	Admin:      "admin",
}

// Parse converts a raw identifier into an ID from the closed set
func Parse(s string) (ID, error) {
	id := ID(s)
	if !id.Valid() {
		return "", fmt.Errorf("unknown tool: %q", s)
	}
	return id, nil
}

// Valid reports whether id belongs to the closed set
func (id ID) Valid() bool {
	_, ok := icons[id]
	return ok
}

// TranslationKey returns the localization key holding the tool's display name
func (id ID) TranslationKey() string {
	return "tool." + string(id)
}

// Icon returns the sidebar icon name
func (id ID) Icon() string {
	return icons[id]
}

func (id ID) String() string {
	return string(id)
}
