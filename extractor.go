package docdex

// Profile identifies the documentation framework a page was built with. It
// selects the content root used during extraction.
type Profile string

// Supported profiles.
const (
	ProfileAuto       Profile = ""
	ProfileDocusaurus Profile = "docusaurus"
	ProfileMkDocs     Profile = "mkdocs"
	ProfileSphinx     Profile = "sphinx"
	ProfileVuePress   Profile = "vuepress"
	ProfileVitePress  Profile = "vitepress"
	ProfileGitBook    Profile = "gitbook"
	ProfileNextra     Profile = "nextra"
)

// ProfileDetector identifies documentation frameworks from HTML.
type ProfileDetector interface {
	// Detect returns the profile of the page, or ProfileAuto if the framework
	// cannot be determined.
	Detect(html string) Profile
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML with boilerplate removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML fetched from pageURL. The URL resolves
	// relative references and may be empty.
	Extract(html, pageURL string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms clean HTML into Markdown with ATX headings. Relative
	// links are made absolute against pageURL when it is not empty.
	Convert(html, pageURL string) (string, error)
}

// Extraction is the Markdown rendition of a page.
type Extraction struct {
	Title    string
	Markdown string
}

// MarkdownExtractor turns rendered HTML into Markdown.
type MarkdownExtractor interface {
	// ExtractMarkdown extracts the main content of html. The url resolves
	// relative links. An empty profile means the extractor picks one itself.
	ExtractMarkdown(html, url string, profile Profile) (*Extraction, error)
}

// RootExtractor extracts the content element a profile designates.
type RootExtractor interface {
	// ExtractRoot returns ENOTFOUND when the profile has no content root or
	// the page does not contain it.
	ExtractRoot(html string, profile Profile) (*ExtractResult, error)
}
