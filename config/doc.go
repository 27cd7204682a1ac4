// Package config builds data catalogs from declarative YAML files.
//
// A catalog file names every persisted dataset, its type and its layer;
// plain feed values ride along in a separate section. Dataset types are
// resolved through a FactoryRegistry so applications can plug in their own
// implementations next to the built-in ones.
//
// Files are read with Viper; a .env file loaded through godotenv supplies
// values for ${VAR} placeholders in dataset paths.
package config
