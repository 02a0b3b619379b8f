// Package config provides configuration parsing for recon.
//
// The configuration is stored in recon.json. This package handles
// loading, saving, and validating it.
//
// # Configuration File Structure
//
//	{
//	  "reconcile": {
//	    "attrRefresh": "full",
//	    "keyCollision": "last-wins",
//	    "eventPrefix": "on"
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "namespace": "recon"
//	  },
//	  "inspect": {
//	    "addr": "localhost:7070"
//	  },
//	  "snapshot": {
//	    "bucket": "my-snapshots",
//	    "prefix": "recon/",
//	    "region": "us-east-1"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := reconcile.New(doc, cfg.EngineOptions()...)
package config
