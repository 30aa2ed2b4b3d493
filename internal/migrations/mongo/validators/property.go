package validators

import "go.mongodb.org/mongo-driver/bson"

var PropertyValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"address",
			"city",
			"max_guests",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"bedrooms": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"bathrooms": bson.M{
				"bsonType": "int",
				"minimum":  0,
			},

			"max_guests": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"price_per_night": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"cleaning_fee": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"amenities": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"active",
					"inactive",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
