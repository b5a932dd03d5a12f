package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/liliqgyurova/toolplanner/internal/engine"
)

type seedTool struct {
	name     string
	desc     string
	category string
	website  string
}

// categoryCaps maps seed categories to capability tags.
var categoryCaps = map[string][]string{
	"assistants":    {engine.CapTextExplain, engine.CapTextSummarize, engine.CapDocReadPDF, engine.CapResearchWeb},
	"writing":       {engine.CapTextExplain, engine.CapTextEdit, engine.CapTextSummarize},
	"design":        {engine.CapImageGenerate, engine.CapImageEdit},
	"video":         {engine.CapVideoGenerate, engine.CapVideoEdit},
	"audio":         {engine.CapVoiceGenerate, engine.CapAudioTranscribe},
	"marketing":     {engine.CapResearchWeb, engine.CapTextExplain, engine.CapSlideGenerate},
	"coding":        {engine.CapTextExplain, engine.CapResearchWeb, engine.CapDocReadPDF},
	"automation":    {engine.CapAutomateWorkflow, engine.CapIntegrations},
	"analytics":     {engine.CapResearchWeb, engine.CapSlideGenerate},
	"education":     {engine.CapTextExplain, engine.CapTextSummarize, engine.CapDocReadPDF},
	"presentations": {engine.CapSlideGenerate, engine.CapTextExplain},
}

var seedTools = []seedTool{
	{"ChatGPT", "general-purpose chat assistant", "assistants", "https://chat.openai.com/"},
	{"Claude", "assistant with long context windows", "assistants", "https://anthropic.com/claude"},
	{"Gemini", "multimodal assistant", "assistants", "https://gemini.google.com/"},
	{"Perplexity", "search and analysis assistant", "assistants", "https://perplexity.ai/"},
	{"Grok", "chat assistant on X", "assistants", "https://grok.x.ai/"},
	{"Notion AI", "assistant inside notes", "assistants", "https://www.notion.so/product/ai"},
	{"Otter.ai", "meeting transcription", "assistants", "https://otter.ai/"},
	{"Fathom", "meeting notes", "assistants", "https://fathom.video/"},
	{"Slack AI", "assistant inside Slack", "assistants", "https://slack.com/features/ai"},
	{"Superhuman", "email triage and drafting", "assistants", "https://superhuman.com/"},
	{"Google NotebookLM", "research notebook over your sources", "assistants", "https://notebooklm.google/"},

	{"Jasper", "marketing and blog copy", "writing", "https://www.jasper.ai/"},
	{"Copy.ai", "copywriting", "writing", "https://www.copy.ai/"},
	{"QuillBot", "paraphrasing and corrections", "writing", "https://quillbot.com/"},
	{"Grammarly", "grammar and style", "writing", "https://www.grammarly.com/"},
	{"Rytr", "fast drafting", "writing", "https://rytr.me/"},
	{"Writesonic", "article generator", "writing", "https://writesonic.com/"},
	{"Wordtune", "rewriting", "writing", "https://www.wordtune.com/"},
	{"Anyword", "marketing copy", "writing", "https://anyword.com/"},
	{"Simplified", "content production", "writing", "https://simplified.com/"},
	{"Writer.com", "enterprise copywriting", "writing", "https://writer.com/"},

	{"DALL-E", "text to image", "design", "https://openai.com/dall-e-3"},
	{"Midjourney", "artistic illustration", "design", "https://www.midjourney.com/"},
	{"Stable Diffusion", "open image generator", "design", "https://stability.ai/stable-diffusion"},
	{"Adobe Firefly", "image generation", "design", "https://www.adobe.com/sensei/generative-ai/firefly.html"},
	{"Canva", "design and templates", "design", "https://www.canva.com/ai/"},
	{"Leonardo AI", "creative generation", "design", "https://leonardo.ai/"},
	{"Playground AI", "freeform generation", "design", "https://playgroundai.com/"},
	{"Remove.bg", "background removal", "design", "https://www.remove.bg/"},
	{"Clipdrop", "retouch and upscaling", "design", "https://clipdrop.co/"},
	{"Stockimg AI", "posters and product shots", "design", "https://stockimg.ai/"},
	{"Fotor AI", "photo edits", "design", "https://www.fotor.com/ai/"},

	{"Runway", "video generation and editing", "video", "https://runwayml.com/"},
	{"CapCut", "video editor", "video", "https://www.capcut.com/"},
	{"Descript", "editing and audio", "video", "https://www.descript.com/"},
	{"Synthesia", "avatar video", "video", "https://www.synthesia.io/"},
	{"Pika Labs", "text to video", "video", "https://pika.art/"},
	{"HeyGen", "avatar video", "video", "https://www.heygen.com/"},
	{"InVideo", "video clips", "video", "https://invideo.io/"},
	{"OpusClip", "short clips", "video", "https://www.opus.pro/"},
	{"Filmora", "easy video", "video", "https://filmora.wondershare.com/"},
	{"Pictory", "video summaries", "video", "https://pictory.ai/"},
	{"Kaiber", "music videos", "video", "https://kaiber.ai/"},
	{"Luma AI", "3D capture", "video", "https://lumalabs.ai/"},

	{"ElevenLabs", "speech synthesis", "audio", "https://elevenlabs.io/"},
	{"Murf.ai", "AI voiceover", "audio", "https://murf.ai/"},
	{"Play.ht", "text to speech", "audio", "https://play.ht/"},
	{"AIVA", "music composition", "audio", "https://www.aiva.ai/"},
	{"Soundraw", "adaptive music", "audio", "https://soundraw.io/"},
	{"Riffusion", "melody generation", "audio", "https://www.riffusion.com/"},
	{"Krisp.ai", "noise suppression", "audio", "https://krisp.ai/"},

	{"Buffer AI", "social post generation", "marketing", "https://buffer.com/"},
	{"FeedHive", "social media scheduling", "marketing", "https://www.feedhive.com/"},
	{"Hootsuite OwlyWriter", "social networks", "marketing", "https://www.hootsuite.com/"},
	{"Mailchimp AI", "email campaigns", "marketing", "https://mailchimp.com/"},
	{"HubSpot ChatSpot", "CRM assistant", "marketing", "https://www.hubspot.com/products/chatspot"},
	{"SocialBee", "social posts", "marketing", "https://socialbee.com/"},
	{"DeepL", "translation", "marketing", "https://www.deepl.com/"},
	{"ClickUp", "task management", "marketing", "https://clickup.com/"},

	{"GitHub Copilot", "code suggestions", "coding", "https://github.com/features/copilot"},
	{"Cursor", "AI code editor", "coding", "https://www.cursor.com/"},
	{"Codeium", "code generation", "coding", "https://codeium.com/"},
	{"Tabnine", "code completion", "coding", "https://www.tabnine.com/"},
	{"Replit Ghostwriter", "AI coding", "coding", "https://replit.com/site/ghostwriter"},
	{"Sourcegraph Cody", "IDE assistant", "coding", "https://about.sourcegraph.com/cody"},
	{"Snyk AI", "security scanning", "coding", "https://snyk.io/"},

	{"Zapier", "workflow automation", "automation", "https://zapier.com/"},
	{"Make (Integromat)", "visual workflows", "automation", "https://www.make.com/"},
	{"n8n", "automation", "automation", "https://n8n.io/"},
	{"Bardeen", "task automation", "automation", "https://www.bardeen.ai/"},
	{"Pipedream", "event-driven workflows", "automation", "https://pipedream.com/"},
	{"Taskade", "AI agents", "automation", "https://www.taskade.com/"},
	{"AgentGPT", "autonomous agents", "automation", "https://agentgpt.reworkd.ai/"},
	{"AutoGPT", "experimental agent", "automation", "https://autogpt.net/"},

	{"Julius AI", "data visualization", "analytics", "https://www.julius.ai/"},
	{"Looker Studio", "business dashboards", "analytics", "https://lookerstudio.google.com/"},
	{"Tableau Pulse", "AI insights", "analytics", "https://www.tableau.com/"},
	{"Zoho Analytics", "business intelligence", "analytics", "https://www.zoho.com/analytics/"},
	{"DataRobot", "ML platform", "analytics", "https://www.datarobot.com/"},

	{"Elicit", "research assistant", "education", "https://elicit.com/"},
	{"Khanmigo", "tutoring AI", "education", "https://www.khanacademy.org/khan-labs"},
	{"Mindgrasp", "text summarization", "education", "https://mindgrasp.ai/"},
	{"Socratic", "homework help", "education", "https://socratic.org/"},
	{"TutorAI", "personal lessons", "education", "https://tutorai.me/"},
	{"Wolfram Alpha", "math computation", "education", "https://www.wolframalpha.com/"},
	{"Duolingo Max", "language learning", "education", "https://www.duolingo.com/"},

	{"Gamma", "AI presentations", "presentations", "https://gamma.app/"},
	{"Tome", "narrative slides", "presentations", "https://tome.app/"},
	{"Beautiful.ai", "smart slide layouts", "presentations", "https://www.beautiful.ai/"},
}

// SeedEmbedded upserts the built-in starter catalog. Existing rows get their
// description refreshed and tags and website merged in.
func (s *Store) SeedEmbedded(ctx context.Context) (inserted int, err error) {
	for _, t := range seedTools {
		caps, ok := categoryCaps[t.category]
		if !ok {
			caps = []string{engine.CapTextExplain}
		}
		links := map[string]string{}
		if t.website != "" {
			links["website"] = t.website
		}
		rec := engine.ToolRecord{Name: t.name, Description: t.desc, Tags: caps, Links: links}

		_, found, err := s.FindToolByName(ctx, t.name)
		if err != nil {
			return inserted, err
		}
		if found {
			if err := s.mergeTool(ctx, rec); err != nil {
				return inserted, fmt.Errorf("merge %s: %w", t.name, err)
			}
			continue
		}
		if _, err := s.CreateTool(ctx, rec); err != nil {
			return inserted, fmt.Errorf("seed %s: %w", t.name, err)
		}
		inserted++
	}
	return inserted, nil
}

func (s *Store) mergeTool(ctx context.Context, t engine.ToolRecord) error {
	links, err := json.Marshal(t.Links)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx,
		`UPDATE ai_tools
		 SET description = CASE WHEN $2 <> '' THEN $2 ELSE description END,
		     tags = ARRAY(SELECT DISTINCT x FROM unnest(tags || $3::text[]) AS x ORDER BY x),
		     links = links || $4::jsonb
		 WHERE name = $1`,
		t.Name, t.Description, pq.Array(t.Tags), links,
	)
	return err
}
