package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/platewise/menuflow/internal/models"
)

// RuleBasedClient is a deterministic ExtractionClient for development
// and tests. It understands the common printed-menu layout: category
// headings, "Name .... 12.50" item lines, parenthesized dietary marks,
// and glass/bottle price pairs on wine lists.
type RuleBasedClient struct {
	pricePattern   *regexp.Regexp
	pairPattern    *regexp.Regexp
	headingPattern *regexp.Regexp
	dietaryPattern *regexp.Regexp
	vintagePattern *regexp.Regexp
}

// Confidence scores reported for rule-based parses. Prices and names
// come straight off the line; categories are inferred from headings.
var ruleConfidence = map[string]float64{
	models.FieldName:     0.95,
	models.FieldPrice:    0.9,
	models.FieldCategory: 0.8,
	models.FieldItemType: 0.7,
}

var dietaryFlagNames = map[string]string{
	"v":          "vegetarian",
	"vegetarian": "vegetarian",
	"vegan":      "vegan",
	"gf":         "gluten-free",
	"df":         "dairy-free",
	"n":          "contains-nuts",
}

// NewRuleBasedClient creates a new rule-based menu parser
func NewRuleBasedClient() *RuleBasedClient {
	return &RuleBasedClient{
		// Pattern: NAME .... $12.50 or NAME  12.5 (price at end)
		pricePattern: regexp.MustCompile(`^(.+?)[\s.]{2,}\$?(\d{1,4}(?:\.\d{1,2})?)\s*$`),
		// Pattern: NAME  12/48 (glass/bottle pair on wine lists)
		pairPattern: regexp.MustCompile(`^(.+?)[\s.]{2,}\$?(\d{1,4}(?:\.\d{1,2})?)\s*/\s*\$?(\d{1,4}(?:\.\d{1,2})?)\s*$`),
		// Short line of letters with no price: treated as a heading
		headingPattern: regexp.MustCompile(`^[A-Za-z][A-Za-z &'\-]{1,39}$`),
		dietaryPattern: regexp.MustCompile(`(?i)\(\s*(v|vegan|vegetarian|gf|df|n)\s*\)`),
		vintagePattern: regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`),
	}
}

// ExtractMenuText parses document text line by line and returns the
// result as JSON, matching the contract of hosted extraction.
func (p *RuleBasedClient) ExtractMenuText(_ context.Context, text string) (string, error) {
	result := p.parse(text)
	data, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (p *RuleBasedClient) parse(text string) *models.ExtractionResult {
	result := &models.ExtractionResult{Items: []models.ExtractedItem{}}

	category := ""
	var last *models.ExtractedItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			last = nil
			continue
		}

		if m := p.pairPattern.FindStringSubmatch(line); m != nil {
			item := p.buildItem(m[1], category)
			item.WineServing = []models.ExtractedServing{
				{Size: "glass", Price: m[2]},
				{Size: "bottle", Price: m[3]},
			}
			item.ItemType = models.ItemTypeWine
			result.Items = append(result.Items, item)
			last = &result.Items[len(result.Items)-1]
			continue
		}

		if m := p.pricePattern.FindStringSubmatch(line); m != nil {
			item := p.buildItem(m[1], category)
			if price, err := strconv.ParseFloat(m[2], 64); err == nil {
				item.Price = &price
			}
			result.Items = append(result.Items, item)
			last = &result.Items[len(result.Items)-1]
			continue
		}

		if p.headingPattern.MatchString(line) && last == nil {
			category = line
			continue
		}

		// Unpriced text directly under an item reads as its description.
		if last != nil {
			if last.Description != "" {
				last.Description += " "
			}
			last.Description += line
		}
	}

	if len(result.Items) > 0 {
		result.MenuName = firstHeading(text)
	}
	return result
}

func (p *RuleBasedClient) buildItem(rawName, category string) models.ExtractedItem {
	item := models.ExtractedItem{
		Category:   category,
		ItemType:   models.ItemTypeFood,
		Confidence: ruleConfidence,
	}

	name := strings.TrimSpace(rawName)
	for _, m := range p.dietaryPattern.FindAllStringSubmatch(name, -1) {
		if flag, ok := dietaryFlagNames[strings.ToLower(m[1])]; ok {
			item.DietaryFlags = append(item.DietaryFlags, flag)
		}
	}
	name = strings.TrimSpace(p.dietaryPattern.ReplaceAllString(name, ""))
	name = strings.TrimRight(name, ".,;:-")
	item.Name = strings.TrimSpace(name)

	if strings.Contains(strings.ToLower(category), "wine") {
		item.ItemType = models.ItemTypeWine
		if m := p.vintagePattern.FindStringSubmatch(item.Name); m != nil {
			item.WineVintage = m[1]
		}
	}
	return item
}

func firstHeading(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
