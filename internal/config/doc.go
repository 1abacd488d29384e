// Package config provides configuration parsing for bindui.
//
// The configuration is stored in bindui.json, found by walking up from the
// working directory. Every field can be overridden by a BINDUI_ environment
// variable, and the CLI flags override both.
//
// # Configuration File Structure
//
//	{
//	  "name": "chat",
//	  "log": {"level": "debug", "format": "json"},
//	  "collection": {
//	    "primaryKey": "id",
//	    "maxElements": 0,
//	    "cloneTemplate": true,
//	    "removeTemplate": true,
//	    "removeDead": true
//	  },
//	  "feed": {
//	    "url": "ws://localhost:8080/ws",
//	    "seedUrl": "http://localhost:8080/api/rooms",
//	    "route": "rooms",
//	    "dialTimeout": "10s"
//	  },
//	  "metrics": {"addr": ":9464"}
//	}
//
// # Environment
//
//	BINDUI_LOG_LEVEL=debug
//	BINDUI_COLLECTION_PRIMARY_KEY=slug
//	BINDUI_FEED_URL=ws://chat.internal/ws
//
// # Usage
//
//	cfg, err := config.Resolve(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger := cfg.Logger(os.Stderr)
package config
