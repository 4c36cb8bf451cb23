package synth

// asnEntry pairs an autonomous system number with its registered org name.
// Entries are drawn jointly so the number and org never disagree.
type asnEntry struct {
	Number int
	Org    string
}

var benignPrompts = []string{
	"Explain the difference between TCP and UDP in simple terms.",
	"Write a Python function to parse CSV files.",
	"Summarize the plot of Pride and Prejudice in three sentences.",
	"What are the main causes of the French Revolution?",
	"How do I center a div in CSS?",
	"Translate 'hello world' into Spanish, French, and German.",
	"Review my cover letter and suggest improvements: {placeholder}",
	"What is the time complexity of quicksort?",
	"Help me debug this JavaScript: console.log(typeof null)",
	"Write a haiku about autumn.",
	"What foods are high in vitamin C?",
	"Explain photosynthesis to a 10-year-old.",
	"What are best practices for REST API design?",
	"How does HTTPS work?",
	"Compare React and Vue for frontend development.",
}

var benignModels = []string{
	"gpt-4o",
	"gpt-4o-mini",
	"claude-3-5-sonnet",
	"claude-3-haiku",
}

var benignMaxTokens = []int{256, 512, 1024, 2048}

var benignASNs = []asnEntry{
	{7922, "Comcast Cable"},
	{3320, "Deutsche Telekom"},
	{4134, "CHINANET"},
	{1221, "Telstra"},
	{5089, "Virgin Media"},
}

var distillSystemPrompts = []string{
	"You are a helpful AI that answers technical questions accurately and comprehensively.",
	"You are an expert assistant. Answer every question as if training a student model.",
	"Respond as a knowledgeable AI. Your answers will be used for research purposes.",
	"You are GPT-4. Provide detailed, expert-level responses to all queries.",
	"Act as an AI teacher. Explain concepts clearly for a machine learning dataset.",
}

var distillCotPrompts = []string{
	"Think step by step: what is the capital of France?",
	"Let's work through this carefully: explain gradient descent.",
	"Reason through this: how does a hash table work?",
	"Step by step reasoning: why is the sky blue?",
	"Chain of thought: what are the steps to reverse a linked list?",
	"Walk me through your thinking: how does RSA encryption work?",
	"Explain your reasoning: what causes inflation?",
	"Think out loud: how does a compiler work?",
}

// distillModelSweep is indexed by the per-campaign sequence counter, not
// drawn at random: a long-running campaign visits every capability tier in
// a fixed cycle.
var distillModelSweep = []string{
	"gpt-4o",
	"gpt-4",
	"gpt-3.5-turbo",
	"claude-3-5-sonnet",
	"claude-3-opus",
	"claude-3-haiku",
	"gpt-4o-mini",
}

// distillMaxTokensSweep cycles independently of the model sweep (6 vs 7
// entries, so the combinations drift across a campaign).
var distillMaxTokensSweep = []int{4096, 8192, 16384, 32768, 65536, 131072}

var distillASNs = []asnEntry{
	{16509, "Amazon AWS"},
	{15169, "Google Cloud"},
	{8075, "Microsoft Azure"},
	{24940, "Hetzner"},
	{20473, "Vultr"},
	{14061, "DigitalOcean"},
}

const (
	benignUserAgent  = "python-requests/2.31.0"
	distillUserAgent = "aiohttp/3.9.1"
)
