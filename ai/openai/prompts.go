package openai

const classificationResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "labels": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {
            "type": "string"
          },
          "confidence": {
            "type": "number",
            "minimum": 0,
            "maximum": 1
          }
        },
        "required": ["name", "confidence"],
        "additionalProperties": false
      }
    }
  },
  "required": ["labels"],
  "additionalProperties": false
}`

var classifierSystemPrompt = `You are an image classifier for a personal photo library.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

` + classificationResponseSchema + `

Rules:
- Each label is a short lowercase noun or noun phrase (1-3 words), singular form: "dog", "beach", "birthday cake".
- Cover scene (beach, mountain, kitchen), objects (bicycle, guitar), animals, people (person, child, group, face), food, weather and time of day (sunset, snow).
- Use "screen", "text" or "document" when the image is a screenshot or a photo of a display or paper.
- Confidence is your probability from 0 to 1 that the label applies. Do not guess.
- Return at most 15 labels, most confident first. If nothing is recognizable, return "labels": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
{"labels": [{"name": "beach", "confidence": 0.94}, {"name": "sunset", "confidence": 0.81}, {"name": "person", "confidence": 0.55}]}`

const classifierUserPrompt = `Classify this image.`
