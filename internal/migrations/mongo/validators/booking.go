package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"guest_name",
			"check_in",
			"check_out",
			"guests_count",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"guest_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},

			"guest_email": bson.M{
				"bsonType": "string",
			},

			"guest_phone": bson.M{
				"bsonType": "string",
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"guests_count": bson.M{
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

			"total_price": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"confirmed",
					"active",
					"completed",
					"cancelled",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
