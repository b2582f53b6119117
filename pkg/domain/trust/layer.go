package trust

// Layer is one of the four independently weighted trust dimensions.
type Layer string

const (
	LayerCapability Layer = "capability"
	LayerAppeal     Layer = "appeal"
	LayerSocial     Layer = "social"
	LayerIntegrity  Layer = "integrity"
)

// Layers is the fixed evaluation order of the trust layers.
var Layers = []Layer{LayerCapability, LayerAppeal, LayerSocial, LayerIntegrity}

// Sub-component names. Activity signals are keyed by these names.
const (
	ComponentContentQuality = "content_quality"
	ComponentReasoning      = "reasoning"
	ComponentKnowledge      = "knowledge"
	ComponentProblemSolving = "problem_solving"

	ComponentEngagement    = "engagement"
	ComponentCommunication = "communication"
	ComponentInfluence     = "influence"
	ComponentCharisma      = "charisma"

	ComponentConnections   = "connections"
	ComponentCollaboration = "collaboration"
	ComponentEndorsements  = "endorsements"
	ComponentNetwork       = "network"
	ComponentIntegration   = "integration"

	ComponentEmpathy      = "empathy"
	ComponentEthics       = "ethics"
	ComponentAuthenticity = "authenticity"
	ComponentCompassion   = "compassion"
	ComponentDignity      = "dignity"
)

type Component struct {
	Name   string
	Weight float64
}

// LayerWeights sum to 1.0.
var LayerWeights = map[Layer]float64{
	LayerCapability: 0.25,
	LayerAppeal:     0.20,
	LayerSocial:     0.25,
	LayerIntegrity:  0.30,
}

// LayerComponents lists the sub-components of each layer. Weights sum to 1.0 per layer.
var LayerComponents = map[Layer][]Component{
	LayerCapability: {
		{ComponentContentQuality, 0.30},
		{ComponentReasoning, 0.25},
		{ComponentKnowledge, 0.25},
		{ComponentProblemSolving, 0.20},
	},
	LayerAppeal: {
		{ComponentEngagement, 0.30},
		{ComponentCommunication, 0.30},
		{ComponentInfluence, 0.20},
		{ComponentCharisma, 0.20},
	},
	LayerSocial: {
		{ComponentConnections, 0.20},
		{ComponentCollaboration, 0.25},
		{ComponentEndorsements, 0.20},
		{ComponentNetwork, 0.15},
		{ComponentIntegration, 0.20},
	},
	LayerIntegrity: {
		{ComponentEmpathy, 0.20},
		{ComponentEthics, 0.25},
		{ComponentAuthenticity, 0.20},
		{ComponentCompassion, 0.15},
		{ComponentDignity, 0.20},
	},
}
