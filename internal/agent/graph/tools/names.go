package tools

// Tool names as exposed to the model.
const (
	AddToolName            = "add"
	MultiplyToolName       = "multiply"
	DivideToolName         = "divide"
	KnowledgeQueryToolName = "knowledge_query"
	TopicListToolName      = "ros2_get_topic_list"
	ParseTopicsToolName    = "ros2_parse_topic_to_config"
	RenderTemplateToolName = "ros2_render_node_template"
)
