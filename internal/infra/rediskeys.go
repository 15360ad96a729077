package infra

const (
	// RedisNamespace Базовый префикс для изоляции данных проекта в Redis
	RedisNamespace = "askrindo"
)

// Каналы Pub/Sub (события)
const (
	// RedisChanAuditFeed — живой фид записей аудита для внешних подписчиков
	// (дашборды, SIEM). Консоль только публикует.
	RedisChanAuditFeed = RedisNamespace + ":audit:feed"
)
