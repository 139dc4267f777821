// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-2026 Datadog, Inc.

// Package ext holds the tag name and value constants shared by every span
// produced by this module.
package ext

// Application types, set as the "span.type" tag value.
const (
	AppTypeWeb   = "web"
	AppTypeDB    = "db"
	AppTypeCache = "cache"
	AppTypeRPC   = "rpc"
)

// Span types.
const (
	SpanTypeWeb           = "web"
	SpanTypeHTTP          = "http"
	SpanTypeSQL           = "sql"
	SpanTypeCassandra     = "cassandra"
	SpanTypeRedis         = "redis"
	SpanTypeElasticSearch = "elasticsearch"
)

// Generic tag names.
const (
	SQLType     = "sql"
	SQLQuery    = "sql.query"
	HTTPURL     = "http.url"
	HTTPMethod  = "http.method"
	HTTPCode    = "http.status_code"
	Environment = "env"

	ServiceName     = "service.name"
	ResourceName    = "resource.name"
	SpanType        = "span.type"
	SpanName        = "span.name"
	Error           = "error"
	ErrorMsg        = "error.message"
	ErrorType       = "error.type"
	ErrorStack      = "error.stack"
	ManualKeep      = "manual.keep"
	ManualDrop      = "manual.drop"
	SamplingPriority = "_sampling_priority_v1"
	Origin          = "_dd.origin"

	PeerService       = "peer.service"
	NetworkDestName   = "network.destination.name"
	PeerHostname      = "peer.hostname"
	AWSService        = "aws_service"
	DBSystem          = "db.system"
	MessagingSystem   = "messaging.system"
	RPCSystem         = "rpc.system"
)

// Tags derived from peer metadata, used by peer.service source inference.
const (
	AWSQueueName    = "queuename"
	AWSTopicName    = "topicname"
	AWSStreamName   = "streamname"
	AWSTableName    = "tablename"
	AWSBucketName   = "bucketname"
	CassandraContactPoints = "contact_points"
	DBName          = "db.name"
	DBInstance      = "db.instance"
	KafkaBootstrapServers = "messaging.kafka.bootstrap.servers"
	RPCService      = "rpc.service"
)
