package storage

// defaultProfileJSON is the built-in edit vocabulary seeded by InitLibrary.
// Edit prompts follow the pattern: action + target + integration +
// preservation clause. Entry order inside each pool is part of the
// generation contract for this profile and must not be reordered.
const defaultProfileJSON = `{
  "name": "Default Edit",
  "description": "General-purpose image edit instructions with preservation clauses",
  "version": "1.0.0",
  "templates": [
    "{action} {target}, {integration}, while keeping {preservation} unchanged",
    "{action} {target} so that it {integration}; preserve {preservation} exactly as they are",
    "Carefully {action} {target}. Make sure it {integration} and that {preservation} remain untouched",
    "{action} {target}, ensuring the result {integration}. Do not alter {preservation}",
    "In this image, {action} {target}; the edit should {integration} without affecting {preservation}",
    "{action} {target} and blend the change naturally - it must {integration}, leaving {preservation} intact"
  ],
  "pools": {
    "action": [
      "replace",
      "remove",
      "add",
      "recolor",
      "enlarge",
      "shrink",
      "relight",
      "sharpen",
      "soften",
      "restyle",
      "reposition",
      "duplicate"
    ],
    "target": [
      "the person in the foreground",
      "the sky above the horizon",
      "the building on the left",
      "the reflection in the water",
      "the text on the sign",
      "the shadows across the ground",
      "the tree line in the background",
      "the vehicle near the curb",
      "the clouds overhead",
      "the clothing of the main subject",
      "the furniture in the room",
      "the light source in the scene"
    ],
    "integration": [
      "matches the existing color grading",
      "follows the original perspective lines",
      "blends seamlessly with surrounding textures",
      "respects the direction of the scene lighting",
      "keeps consistent grain and noise levels",
      "sits naturally within the depth of field",
      "casts shadows consistent with the scene",
      "matches the ambient color temperature",
      "aligns with the horizon and vanishing points",
      "preserves the photographic realism of the frame"
    ],
    "preservation": [
      "the facial features of every person",
      "the overall composition and framing",
      "the background architecture",
      "all visible text and logos",
      "the original color palette",
      "the camera angle and perspective",
      "the lighting mood of the scene",
      "every element outside the edited region",
      "the skin tones of the subjects",
      "the fine textures and details elsewhere"
    ]
  }
}
`
