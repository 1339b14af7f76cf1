package models

// UploadSettings is the JSON sidecar sent as the "data" part of a
// create-by-file request. It tells the knowledge base how to index, segment
// and retrieve the uploaded document.
type UploadSettings struct {
	Name                   string         `json:"name"`
	IndexingTechnique      string         `json:"indexing_technique"`
	DocForm                string         `json:"doc_form"`
	ProcessRule            ProcessRule    `json:"process_rule"`
	RetrievalModel         RetrievalModel `json:"retrieval_model"`
	EmbeddingModel         string         `json:"embedding_model"`
	EmbeddingModelProvider string         `json:"embedding_model_provider"`
}

// ProcessRule configures document cleaning and segmentation.
type ProcessRule struct {
	Mode  string       `json:"mode"`
	Rules ProcessRules `json:"rules"`
}

type ProcessRules struct {
	PreProcessingRules   []PreProcessingRule `json:"pre_processing_rules"`
	Segmentation         Segmentation        `json:"segmentation"`
	ParentMode           string              `json:"parent_mode"`
	SubchunkSegmentation Segmentation        `json:"subchunk_segmentation"`
}

type PreProcessingRule struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

type Segmentation struct {
	Separator    string `json:"separator"`
	MaxTokens    int    `json:"max_tokens"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty"`
}

// RetrievalModel configures how the dataset is searched. It is only applied by
// the knowledge base when the dataset has no retrieval settings yet.
type RetrievalModel struct {
	SearchMethod          string         `json:"search_method"`
	RerankingEnable       bool           `json:"reranking_enable"`
	RerankingMode         string         `json:"reranking_mode"`
	RerankingModel        RerankingModel `json:"reranking_model"`
	TopK                  int            `json:"top_k"`
	ScoreThresholdEnabled bool           `json:"score_threshold_enabled"`
	ScoreThreshold        float64        `json:"score_threshold"`
}

type RerankingModel struct {
	ProviderName string `json:"reranking_provider_name"`
	ModelName    string `json:"reranking_model_name"`
}

// DefaultUploadSettings returns hierarchical, paragraph-level segmentation
// with hybrid search and reranking.
func DefaultUploadSettings() UploadSettings {
	return UploadSettings{
		IndexingTechnique: "high_quality",
		DocForm:           "hierarchical_model",
		ProcessRule: ProcessRule{
			Mode: "custom",
			Rules: ProcessRules{
				PreProcessingRules: []PreProcessingRule{
					{ID: "remove_extra_spaces", Enabled: true},
					{ID: "remove_urls_emails", Enabled: true},
				},
				Segmentation: Segmentation{Separator: "\n\n\n", MaxTokens: 4000},
				ParentMode:   "paragraph",
				SubchunkSegmentation: Segmentation{
					Separator:    "\n\n",
					MaxTokens:    500,
					ChunkOverlap: 50,
				},
			},
		},
		RetrievalModel: RetrievalModel{
			SearchMethod:    "hybrid_search",
			RerankingEnable: true,
			RerankingMode:   "reranking_model",
			RerankingModel: RerankingModel{
				ProviderName: "langgenius/siliconflow/siliconflow",
				ModelName:    "BAAI/bge-reranker-v2-m3",
			},
			TopK:                  8,
			ScoreThresholdEnabled: true,
			ScoreThreshold:        0.1,
		},
		EmbeddingModel:         "text-embedding-3-small",
		EmbeddingModelProvider: "langgenius/openai",
	}
}
