package eventbus

// Global topic declarations: base topic names per feature, kept in one
// place so they can be swapped for configuration later.

var (
	TopicArticleEvents = NewTopic("bias-lens.article.events")
)

var AllTopics = []Topic{
	TopicArticleEvents,
}
