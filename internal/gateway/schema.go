package gateway

import (
	"fmt"

	"google.golang.org/genai"
)

func productSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":              {Type: genai.TypeString},
				"niche":             {Type: genai.TypeString},
				"description":       {Type: genai.TypeString},
				"link":              {Type: genai.TypeString},
				"platform":          {Type: genai.TypeString},
				"imageUrl":          {Type: genai.TypeString},
				"totalCommission":   {Type: genai.TypeNumber},
				"partnerCommission": {Type: genai.TypeNumber},
			},
			Required: []string{
				"name", "niche", "description", "link", "platform",
				"imageUrl", "totalCommission", "partnerCommission",
			},
		},
	}
}

func analysisSchema() *genai.Schema {
	stringList := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"targetAudience":     stringList,
			"painPoints":         stringList,
			"marketingAngles":    stringList,
			"competitorStrategy": {Type: genai.TypeString},
		},
		Required: []string{"targetAudience", "painPoints", "marketingAngles", "competitorStrategy"},
	}
}

func trendsPrompt(count int) string {
	return fmt.Sprintf(
		"Gere %d produtos tendência no Brasil hoje (Shopee, Amazon, Hotmart). Foco em alta conversão. Retorne JSON.",
		count,
	)
}

func analysisPrompt(niche string) string {
	return fmt.Sprintf(`Analise profundamente o nicho: %q. Identifique:
1. 3 perfis de público-alvo ideais.
2. 3 dores ou desejos latentes desse público.
3. 2 ângulos de marketing (headlines matadoras) para vender produtos desse nicho.
4. Uma breve análise de como os concorrentes estão atuando.
Retorne em JSON estruturado.`, niche)
}
