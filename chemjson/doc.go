//Package chemjson implements the serialization and unserialization of
//pbfev data types. Its planned use is the communication of pbfev
//programs with an independent cheminformatics toolkit, possibly written
//in another language, which obtains the scaffold, the exit-marked
//structure and the exit pairs of each molecule and writes them as one
//JSON record per line. Record streams can be compressed with zstd or gzip.
//The results are written back as one JSON Output per line, for instance,
//via UNIX pipes.
package chemjson
