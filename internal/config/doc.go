// Package config provides configuration parsing for lattice projects.
//
// The configuration is stored in lattice.json at the project root. Every
// field is optional; a project without the file runs on the defaults.
//
// # Configuration File Structure
//
//	{
//	  "name": "dashboard",
//	  "logLevel": "debug",
//	  "layout": {
//	    "spacing": 4,
//	    "alignment": "start",
//	    "width": 320,
//	    "height": 480
//	  },
//	  "inspect": {
//	    "host": "0.0.0.0",
//	    "port": 7070,
//	    "tracing": true
//	  },
//	  "snapshots": {
//	    "dir": "testdata/snapshots",
//	    "s3": {
//	      "bucket": "layout-goldens",
//	      "prefix": "dashboard/",
//	      "region": "eu-west-1"
//	    }
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := layout.NewEngine(layout.WithEnvironment(cfg.Environment()))
package config
