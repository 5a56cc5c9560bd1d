package catalog

// JSON Schemas the loader validates content files against before seeding.
// YAML documents are decoded to generic maps and checked as JSON, so a bad
// catalog fails at startup instead of surfacing mid-session.

const courseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["course", "modules"],
  "properties": {
    "course": {
      "type": "object",
      "required": ["id", "code", "name", "provider", "passing_score"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "code": {"type": "string", "minLength": 1},
        "name": {"type": "string", "minLength": 1},
        "provider": {"type": "string"},
        "description": {"type": "string"},
        "total_duration": {"type": "string"},
        "passing_score": {"type": "integer", "minimum": 0, "maximum": 100},
        "exam_voucher": {
          "type": "object",
          "required": ["code", "exam_name"],
          "properties": {
            "code": {"type": "string"},
            "exam_name": {"type": "string"},
            "expiry_date": {"type": "string"}
          }
        }
      }
    },
    "modules": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "number", "title", "lessons", "quiz"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "number": {"type": "integer", "minimum": 1},
          "title": {"type": "string", "minLength": 1},
          "duration": {"type": "string"},
          "lessons": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["id", "number", "title", "type"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "number": {"type": "integer", "minimum": 1},
                "title": {"type": "string", "minLength": 1},
                "type": {"enum": ["video", "document", "interactive"]},
                "duration_seconds": {"type": "integer", "minimum": 0}
              }
            }
          },
          "quiz": {
            "type": "object",
            "required": ["id", "title", "passing_score", "questions"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "title": {"type": "string"},
              "passing_score": {"type": "integer", "minimum": 0, "maximum": 100},
              "time_limit_minutes": {"type": "integer", "minimum": 0},
              "questions": {
                "type": "array",
                "minItems": 1,
                "items": {
                  "type": "object",
                  "required": ["id", "number", "text", "type", "options", "correct_option_ids"],
                  "properties": {
                    "id": {"type": "string", "minLength": 1},
                    "number": {"type": "integer", "minimum": 1},
                    "text": {"type": "string", "minLength": 1},
                    "type": {"enum": ["single", "multiple", "true_false"]},
                    "options": {
                      "type": "array",
                      "minItems": 2,
                      "items": {
                        "type": "object",
                        "required": ["id", "text"],
                        "properties": {
                          "id": {"type": "string", "minLength": 1},
                          "text": {"type": "string"},
                          "correct": {"type": "boolean"}
                        }
                      }
                    },
                    "correct_option_ids": {
                      "type": "array",
                      "minItems": 1,
                      "items": {"type": "string"}
                    },
                    "explanation": {"type": "string"},
                    "points": {"type": "integer", "minimum": 0}
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const qubitsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["modules"],
  "properties": {
    "modules": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "title", "total_questions"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "title": {"type": "string", "minLength": 1},
          "subtitle": {"type": "string"},
          "total_questions": {"type": "integer", "minimum": 0},
          "attempted_questions": {"type": "integer", "minimum": 0},
          "correct_answers": {"type": "integer", "minimum": 0},
          "questions_to_attempt": {"type": "integer", "minimum": 1},
          "selected": {"type": "boolean"}
        }
      }
    },
    "dashboard": {
      "type": "object",
      "properties": {
        "streak": {"type": "integer", "minimum": 0},
        "time_spent": {"type": "string"},
        "last_practice_date": {"type": "string"}
      }
    }
  }
}`
